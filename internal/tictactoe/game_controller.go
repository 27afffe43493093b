package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// ApplyMove - places the next mark on the cell of the current snapshot.
// Returns the input state and false when the game is already won,
// the cell is occupied or out of range.
func ApplyMove(state *entity.GameState, cell int) (*entity.GameState, bool) {
	if !validateMove(state, cell) {
		return state, false
	}

	current := state.Current()

	squares := current.Squares
	squares[cell] = state.NextMark()
	position := PositionOf(cell)

	history := make(entity.History, state.CurrentStep+1, state.CurrentStep+2)
	copy(history, state.History[:state.CurrentStep+1])
	history = append(history, entity.Snapshot{
		Squares:  squares,
		Position: &position,
	})

	return &entity.GameState{
		History:     history,
		CurrentStep: len(history) - 1,
		Reversed:    state.Reversed,
	}, true
}

// JumpTo - moves the cursor to the step, keeping later snapshots until the next move.
func JumpTo(state *entity.GameState, step int) (*entity.GameState, bool) {
	if step < 0 || step >= len(state.History) {
		return state, false
	}

	return &entity.GameState{
		History:     state.History,
		CurrentStep: step,
		Reversed:    state.Reversed,
	}, true
}

// ToggleReverse - flips the move list ordering.
func ToggleReverse(state *entity.GameState) *entity.GameState {
	return &entity.GameState{
		History:     state.History,
		CurrentStep: state.CurrentStep,
		Reversed:    !state.Reversed,
	}
}

// PositionOf - converts a cell index to its 1-indexed row and column.
func PositionOf(cell int) entity.Position {
	return entity.Position{
		Row: cell/3 + 1,
		Col: cell%3 + 1,
	}
}

// validateMove - checks if the move is legal for the current snapshot.
func validateMove(state *entity.GameState, cell int) bool {
	if cell < 0 || cell >= entity.BoardSize {
		return false
	}

	squares := state.Current().Squares

	if entity.Evaluate(squares).HasWinner() {
		return false
	}

	return squares[cell] == entity.EmptyCell
}
