package websocket

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
	"github.com/rocketscienceinc/tictactoe-timetravel/transport/rest"
)

func dial(t *testing.T) (*websocket.Conn, *http.Response) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, nil, view.VariantFull, repository.NewMemorySessionRepository(time.Hour))
	server := New(logger, manager, rest.NewSessions("user_session", time.Hour))

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, resp
}

func exchange(t *testing.T, conn *websocket.Conn, request string) Response {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(request)))

	var response Response
	require.NoError(t, conn.ReadJSON(&response))

	return response
}

func TestServer_Handshake(t *testing.T) {
	// When: connecting without a session cookie
	_, resp := dial(t)

	// Then: the upgrade response issues one
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, "user_session", resp.Cookies()[0].Name)
}

func TestServer_Game(t *testing.T) {
	t.Run("State of a new session", func(t *testing.T) {
		conn, _ := dial(t)

		response := exchange(t, conn, `{"action":"game:state"}`)

		assert.Equal(t, ActionState, response.Action)
		require.NotNil(t, response.Payload.Game)
		assert.Equal(t, "Next player: X", response.Payload.Game.Status)
	})

	t.Run("Moves to a win", func(t *testing.T) {
		conn, _ := dial(t)

		var response Response
		for _, cell := range []string{"0", "4", "1", "3", "2"} {
			response = exchange(t, conn, `{"action":"game:move","payload":{"cell":`+cell+`}}`)
			require.Empty(t, response.Payload.Error)
		}

		assert.Equal(t, "Winner: X", response.Payload.Game.Status)
		assert.Equal(t, []int{0, 1, 2}, response.Payload.Game.WinningLine)
	})

	t.Run("Jump and reverse", func(t *testing.T) {
		conn, _ := dial(t)
		exchange(t, conn, `{"action":"game:move","payload":{"cell":4}}`)
		exchange(t, conn, `{"action":"game:move","payload":{"cell":0}}`)

		response := exchange(t, conn, `{"action":"game:jump","payload":{"step":1}}`)
		assert.Equal(t, 1, response.Payload.Game.CurrentStep)
		assert.Equal(t, entity.PlayerO, response.Payload.Game.NextMark)

		response = exchange(t, conn, `{"action":"game:reverse"}`)
		assert.True(t, response.Payload.Game.Reversed)
		assert.Equal(t, 1, response.Payload.Game.Moves[0].Step)

		response = exchange(t, conn, `{"action":"game:new"}`)
		assert.Len(t, response.Payload.Game.Moves, 1)
	})

	t.Run("Bad requests keep the connection open", func(t *testing.T) {
		conn, _ := dial(t)

		response := exchange(t, conn, `not json`)
		assert.Equal(t, ActionError, response.Action)
		assert.Equal(t, "invalid message", response.Payload.Error)

		response = exchange(t, conn, `{"action":"game:fly"}`)
		assert.Equal(t, "unknown action", response.Payload.Error)

		response = exchange(t, conn, `{"action":"game:move","payload":{}}`)
		assert.Contains(t, response.Payload.Error, "cell is required")

		response = exchange(t, conn, `{"action":"game:state"}`)
		assert.NotNil(t, response.Payload.Game)
	})
}
