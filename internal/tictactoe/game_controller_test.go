package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

func playMoves(t *testing.T, cells ...int) *entity.GameState {
	t.Helper()

	state := entity.NewGameState()
	for _, cell := range cells {
		var ok bool
		state, ok = ApplyMove(state, cell)
		require.True(t, ok, "move %d rejected", cell)
	}

	return state
}

func TestApplyMove(t *testing.T) {
	t.Run("ApplyMove", func(t *testing.T) {
		// Given: a new game
		state := entity.NewGameState()

		// When: the first move is made in the centre
		next, ok := ApplyMove(state, 4)

		// Then: a snapshot with X in the centre is appended
		require.True(t, ok)
		require.Len(t, next.History, 2)
		assert.Equal(t, 1, next.CurrentStep)
		assert.Equal(t, entity.PlayerX, next.Current().Squares[4])
		assert.Equal(t, &entity.Position{Row: 2, Col: 2}, next.Current().Position)
		assert.Equal(t, entity.PlayerO, next.NextMark())

		// Then: the previous state is untouched
		assert.Len(t, state.History, 1)
		assert.Equal(t, entity.Board{}, state.Current().Squares)
	})

	t.Run("Each snapshot differs from its predecessor in one cell", func(t *testing.T) {
		// Given: a game with several moves
		state := playMoves(t, 0, 4, 8, 2, 6)

		// Then: consecutive snapshots differ in exactly one cell
		for i := 1; i < len(state.History); i++ {
			diff := 0
			for c := 0; c < entity.BoardSize; c++ {
				if state.History[i].Squares[c] != state.History[i-1].Squares[c] {
					diff++
				}
			}
			assert.Equal(t, 1, diff, "step %d", i)
		}
	})

	t.Run("Ignores move on occupied cell", func(t *testing.T) {
		// Given: a game where X holds cell 0
		state := playMoves(t, 0)

		// When: O tries the same cell
		next, ok := ApplyMove(state, 0)

		// Then: nothing changes
		assert.False(t, ok)
		assert.Same(t, state, next)
		assert.Len(t, next.History, 2)
		assert.Equal(t, 1, next.CurrentStep)
	})

	t.Run("Ignores move after a win", func(t *testing.T) {
		// Given: X has completed the top row
		state := playMoves(t, 0, 4, 1, 3, 2)

		// When: O tries to play on
		next, ok := ApplyMove(state, 8)

		// Then: nothing changes
		assert.False(t, ok)
		assert.Same(t, state, next)
		assert.Len(t, next.History, 6)
	})

	t.Run("Ignores out of range cells", func(t *testing.T) {
		state := entity.NewGameState()

		_, ok := ApplyMove(state, -1)
		assert.False(t, ok)

		_, ok = ApplyMove(state, 9)
		assert.False(t, ok)
	})

	t.Run("Marks alternate strictly", func(t *testing.T) {
		state := entity.NewGameState()
		expected := []entity.Mark{entity.PlayerX, entity.PlayerO, entity.PlayerX, entity.PlayerO}

		for i, cell := range []int{0, 1, 2, 4} {
			require.Equal(t, expected[i], state.NextMark())

			var ok bool
			state, ok = ApplyMove(state, cell)
			require.True(t, ok)
			assert.Equal(t, expected[i], state.Current().Squares[cell])
		}
	})
}

func TestJumpTo(t *testing.T) {
	t.Run("Moves the cursor and keeps later snapshots", func(t *testing.T) {
		// Given: a game with three moves
		state := playMoves(t, 0, 4, 8)

		// When: jumping back to the first move
		next, ok := JumpTo(state, 1)

		// Then: the cursor moves, history stays and O is to move
		require.True(t, ok)
		assert.Equal(t, 1, next.CurrentStep)
		assert.Len(t, next.History, 4)
		assert.Equal(t, entity.PlayerO, next.NextMark())
		assert.Len(t, next.Visible(), 2)
	})

	t.Run("Ignores steps outside the history", func(t *testing.T) {
		state := playMoves(t, 0)

		next, ok := JumpTo(state, 2)
		assert.False(t, ok)
		assert.Same(t, state, next)

		next, ok = JumpTo(state, -1)
		assert.False(t, ok)
		assert.Same(t, state, next)
	})

	t.Run("Next mark is a function of step parity", func(t *testing.T) {
		state := playMoves(t, 0, 1, 2, 3, 5)

		for step := range state.History {
			next, ok := JumpTo(state, step)
			require.True(t, ok)

			if step%2 == 0 {
				assert.Equal(t, entity.PlayerX, next.NextMark())
			} else {
				assert.Equal(t, entity.PlayerO, next.NextMark())
			}
		}
	})

	t.Run("Jumping back after a win allows play again", func(t *testing.T) {
		// Given: X has won
		state := playMoves(t, 0, 4, 1, 3, 2)

		// When: jumping back before the winning move and playing elsewhere
		state, ok := JumpTo(state, 4)
		require.True(t, ok)
		state, ok = ApplyMove(state, 8)

		// Then: the move is accepted and the winning branch is gone
		require.True(t, ok)
		assert.Len(t, state.History, 6)
		assert.False(t, entity.Evaluate(state.Current().Squares).HasWinner())
	})
}

func TestTimeTravelTruncation(t *testing.T) {
	// Given: one move played
	state := playMoves(t, 0)

	// When: jumping to the start and playing a different cell
	state, ok := JumpTo(state, 0)
	require.True(t, ok)
	branch := state
	state, ok = ApplyMove(state, 5)
	require.True(t, ok)

	// Then: the old branch is discarded
	require.Len(t, state.History, 2)
	assert.Equal(t, entity.EmptyCell, state.Current().Squares[0])
	assert.Equal(t, entity.PlayerX, state.Current().Squares[5])

	// Then: the state we jumped from still holds its own snapshots
	assert.Equal(t, entity.PlayerX, branch.History[1].Squares[0])
}

func TestToggleReverse(t *testing.T) {
	// Given: a game with a move
	state := playMoves(t, 3)

	// When: toggling twice
	reversed := ToggleReverse(state)
	restored := ToggleReverse(reversed)

	// Then: only the flag changes
	assert.True(t, reversed.Reversed)
	assert.False(t, restored.Reversed)
	assert.Equal(t, state.History, reversed.History)
	assert.Equal(t, state.CurrentStep, reversed.CurrentStep)
}

func TestPositionOf(t *testing.T) {
	assert.Equal(t, entity.Position{Row: 1, Col: 1}, PositionOf(0))
	assert.Equal(t, entity.Position{Row: 1, Col: 3}, PositionOf(2))
	assert.Equal(t, entity.Position{Row: 2, Col: 2}, PositionOf(4))
	assert.Equal(t, entity.Position{Row: 3, Col: 1}, PositionOf(6))
	assert.Equal(t, entity.Position{Row: 3, Col: 3}, PositionOf(8))
}

func TestEndToEnd(t *testing.T) {
	t.Run("Top row win for X", func(t *testing.T) {
		state := playMoves(t, 0, 4, 1, 3, 2)

		result := entity.Evaluate(state.Current().Squares)

		assert.Equal(t, entity.PlayerX, result.Winner)
		assert.Equal(t, []int{0, 1, 2}, result.Line)
	})

	t.Run("Full board without a line", func(t *testing.T) {
		// X O X
		// X O O
		// O X X
		state := playMoves(t, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		assert.Len(t, state.History, 10)
		assert.True(t, state.Current().Squares.IsFull())
		assert.False(t, entity.Evaluate(state.Current().Squares).HasWinner())
	})
}
