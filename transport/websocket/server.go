package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const (
	readTimeout  = 5 * time.Minute
	writeTimeout = 10 * time.Second
	maxMessage   = 4 << 10
)

type gameUseCase interface {
	Session(ctx context.Context, sessionID string) (string, *view.Game, error)
	ApplyMove(ctx context.Context, sessionID string, cell int) (*view.Game, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*view.Game, error)
	ToggleReverse(ctx context.Context, sessionID string) (*view.Game, error)
	NewGame(ctx context.Context, sessionID string) (*view.Game, error)
}

type sessions interface {
	ID(req *http.Request) string
	Set(writer http.ResponseWriter, id string)
}

type handlerFunc func(ctx context.Context, sessionID string, msg *Message) (*view.Game, error)

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	sessions sessions
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, game gameUseCase, sessions sessions) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		game:     game,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionState] = server.handleState
	server.handlers[ActionMove] = server.handleMove
	server.handlers[ActionJump] = server.handleJump
	server.handlers[ActionReverse] = server.handleReverse
	server.handlers[ActionNew] = server.handleNew

	return server
}

// ServeHTTP - upgrades the connection and serves messages for the request's session.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	sessionID, _, err := that.game.Session(req.Context(), that.sessions.ID(req))
	if err != nil {
		log.Error("failed to load session", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	header := http.Header{}
	if that.sessions.ID(req) != sessionID {
		recorder := cookieRecorder{header: header}
		that.sessions.Set(recorder, sessionID)
	}

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		// the upgrader already replied with an error status
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// hijacked connections keep the http server deadlines
	_ = conn.NetConn().SetDeadline(time.Time{})
	conn.SetReadLimit(maxMessage)

	log = log.With("sessionID", sessionID)
	log.Info("WebSocket connection established")

	if err = that.handleMessages(req.Context(), conn, sessionID); err != nil {
		log.Error("error handling messages", "error", err)
		return
	}

	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "sessionID", sessionID)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, reqBody, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.send(conn, ActionError, ResponsePayload{Error: "invalid message"}); err != nil {
				return err
			}
			continue
		}

		if err = that.dispatch(ctx, conn, sessionID, &message); err != nil {
			return err
		}
	}
}

// dispatch - runs the handler for the message; only write failures end the connection.
func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, sessionID string, message *Message) error {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return that.send(conn, message.Action, ResponsePayload{Error: "unknown action"})
	}

	game, err := handler(ctx, sessionID, message)
	if err != nil {
		log.Error("error processing message", "error", err)
		return that.send(conn, message.Action, ResponsePayload{Error: publicError(err)})
	}

	return that.send(conn, message.Action, ResponsePayload{Game: game})
}

func (that *Server) send(conn *websocket.Conn, action string, payload ResponsePayload) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err := conn.WriteJSON(Response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// cookieRecorder - collects Set-Cookie headers for the upgrade response.
type cookieRecorder struct {
	http.ResponseWriter
	header http.Header
}

func (that cookieRecorder) Header() http.Header {
	return that.header
}
