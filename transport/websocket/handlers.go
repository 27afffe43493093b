package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

func (that *Server) handleState(ctx context.Context, sessionID string, _ *Message) (*view.Game, error) {
	_, game, err := that.game.Session(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	return game, nil
}

func (that *Server) handleMove(ctx context.Context, sessionID string, msg *Message) (*view.Game, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, fmt.Errorf("%w: cell is required", apperror.ErrInvalidPayload)
	}

	game, err := that.game.ApplyMove(ctx, sessionID, *payload.Cell)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	return game, nil
}

func (that *Server) handleJump(ctx context.Context, sessionID string, msg *Message) (*view.Game, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Step == nil {
		return nil, fmt.Errorf("%w: step is required", apperror.ErrInvalidPayload)
	}

	game, err := that.game.JumpTo(ctx, sessionID, *payload.Step)
	if err != nil {
		return nil, fmt.Errorf("failed to jump: %w", err)
	}

	return game, nil
}

func (that *Server) handleReverse(ctx context.Context, sessionID string, _ *Message) (*view.Game, error) {
	game, err := that.game.ToggleReverse(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse history: %w", err)
	}

	return game, nil
}

func (that *Server) handleNew(ctx context.Context, sessionID string, _ *Message) (*view.Game, error) {
	game, err := that.game.NewGame(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to start new game: %w", err)
	}

	return game, nil
}

func decodePayload(msg *Message) (*RequestPayload, error) {
	var payload RequestPayload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return &payload, nil
}

// publicError - the text sent to the client; storage details stay in the log.
func publicError(err error) string {
	if errors.Is(err, apperror.ErrInvalidPayload) {
		return err.Error()
	}

	return "internal error"
}
