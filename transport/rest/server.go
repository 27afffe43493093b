package rest

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
	"github.com/rocketscienceinc/tictactoe-timetravel/web"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	Session(ctx context.Context, sessionID string) (string, *view.Game, error)
	ApplyMove(ctx context.Context, sessionID string, cell int) (*view.Game, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*view.Game, error)
	ToggleReverse(ctx context.Context, sessionID string) (*view.Game, error)
	NewGame(ctx context.Context, sessionID string) (*view.Game, error)
	EndSession(ctx context.Context, sessionID string) error
}

type Server struct {
	logger    *slog.Logger
	game      gameUseCase
	templates *template.Template
	sessions  *Sessions

	mux *http.ServeMux
}

func New(logger *slog.Logger, game gameUseCase, sessions *Sessions) *Server {
	server := &Server{
		logger:    logger.With("component", "http"),
		game:      game,
		templates: web.Templates(),
		sessions:  sessions,
		mux:       http.NewServeMux(),
	}

	server.mux.HandleFunc("GET /ping", pingHandler)
	server.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))

	server.mux.HandleFunc("GET /{$}", server.handleIndex)
	server.mux.HandleFunc("POST /move/{cell}", server.handleMove)
	server.mux.HandleFunc("POST /jump/{step}", server.handleJump)
	server.mux.HandleFunc("POST /reverse", server.handleReverse)
	server.mux.HandleFunc("POST /new", server.handleNew)

	server.mux.HandleFunc("GET /api/game", server.handleAPIState)
	server.mux.HandleFunc("POST /api/game/move", server.handleAPIMove)
	server.mux.HandleFunc("POST /api/game/jump", server.handleAPIJump)
	server.mux.HandleFunc("POST /api/game/reverse", server.handleAPIReverse)
	server.mux.HandleFunc("POST /api/game/new", server.handleAPINew)
	server.mux.HandleFunc("DELETE /api/game", server.handleAPIEnd)

	return server
}

// Handle - mounts an extra handler, such as the socket endpoint or metrics.
func (that *Server) Handle(pattern string, handler http.Handler) {
	that.mux.Handle(pattern, handler)
}

func (that *Server) Handler() http.Handler {
	return requestLogger(that.logger, that.mux)
}

// Start - serves HTTP until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
