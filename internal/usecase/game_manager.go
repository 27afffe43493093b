package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const lockStripes = 64

type sessionRepo interface {
	Save(ctx context.Context, id string, state *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager - runs game actions against the state stored for a session.
// Actions on the same session are serialized.
type GameManager struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	variant view.Variant

	sessionRepo sessionRepo

	locks [lockStripes]sync.Mutex
}

func NewGameManager(logger *slog.Logger, m *metrics.Metrics, variant view.Variant, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		metrics: m,
		variant: variant,

		sessionRepo: sessionRepo,
	}
}

// Session - returns the session id to use, creating a fresh game when the id is empty or unknown.
func (that *GameManager) Session(ctx context.Context, sessionID string) (string, *view.Game, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := that.lock(sessionID)
	defer unlock()

	state, err := that.load(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}

	return sessionID, view.Build(state, that.variant), nil
}

func (that *GameManager) State(ctx context.Context, sessionID string) (*view.Game, error) {
	_, game, err := that.Session(ctx, sessionID)
	return game, err
}

func (that *GameManager) ApplyMove(ctx context.Context, sessionID string, cell int) (*view.Game, error) {
	return that.update(ctx, sessionID, metrics.ActionMove, func(state *entity.GameState) (*entity.GameState, bool) {
		next, ok := tictactoe.ApplyMove(state, cell)
		if ok {
			that.recordResult(next)
		}
		return next, ok
	}, "cell", cell)
}

func (that *GameManager) JumpTo(ctx context.Context, sessionID string, step int) (*view.Game, error) {
	return that.update(ctx, sessionID, metrics.ActionJump, func(state *entity.GameState) (*entity.GameState, bool) {
		return tictactoe.JumpTo(state, step)
	}, "step", step)
}

// ToggleReverse - ignored in the classic variant, which has no reverse control.
func (that *GameManager) ToggleReverse(ctx context.Context, sessionID string) (*view.Game, error) {
	return that.update(ctx, sessionID, metrics.ActionReverse, func(state *entity.GameState) (*entity.GameState, bool) {
		if !that.variant.Full() {
			return state, false
		}
		return tictactoe.ToggleReverse(state), true
	})
}

// NewGame - discards the session's history and starts from an empty board.
func (that *GameManager) NewGame(ctx context.Context, sessionID string) (*view.Game, error) {
	return that.update(ctx, sessionID, metrics.ActionNew, func(*entity.GameState) (*entity.GameState, bool) {
		return entity.NewGameState(), true
	})
}

// EndSession - drops the session record. Unknown sessions are not an error.
func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	unlock := that.lock(sessionID)
	defer unlock()

	err := that.sessionRepo.DeleteByID(ctx, sessionID)
	if err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (that *GameManager) update(
	ctx context.Context,
	sessionID, action string,
	transition func(*entity.GameState) (*entity.GameState, bool),
	attrs ...any,
) (*view.Game, error) {
	log := that.logger.With("method", action, "sessionID", sessionID).With(attrs...)

	unlock := that.lock(sessionID)
	defer unlock()

	state, err := that.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, applied := transition(state)
	that.metrics.Action(action, applied)

	if !applied {
		log.Debug("action ignored", "currentStep", state.CurrentStep)
		return view.Build(state, that.variant), nil
	}

	if err = that.sessionRepo.Save(ctx, sessionID, next); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Debug("action applied", "currentStep", next.CurrentStep, "history", len(next.History))

	return view.Build(next, that.variant), nil
}

// load - returns the stored state, replacing a missing or corrupt record with a new game.
func (that *GameManager) load(ctx context.Context, sessionID string) (*entity.GameState, error) {
	state, err := that.sessionRepo.GetByID(ctx, sessionID)
	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, apperror.ErrCorruptSession):
		that.logger.Warn("discarding corrupt session", "sessionID", sessionID, "error", err)
	case !errors.Is(err, apperror.ErrSessionNotFound):
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	state = entity.NewGameState()
	if err = that.sessionRepo.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("new game session", "sessionID", sessionID)

	return state, nil
}

func (that *GameManager) recordResult(state *entity.GameState) {
	squares := state.Current().Squares

	if result := entity.Evaluate(squares); result.HasWinner() {
		that.metrics.Result(string(result.Winner))
		return
	}

	if squares.IsFull() {
		that.metrics.Result("draw")
	}
}

func (that *GameManager) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))

	mu := &that.locks[h.Sum32()%lockStripes]
	mu.Lock()

	return mu.Unlock
}
