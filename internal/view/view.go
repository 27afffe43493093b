// Package view derives everything a page render needs from a game state.
package view

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type Variant string

const (
	// VariantFull highlights the winning line, reports draws and offers reverse ordering.
	VariantFull Variant = "full"
	// VariantClassic is the reduced mode without those three features.
	VariantClassic Variant = "classic"
)

// drawLength - a visible history of this length means nine moves were played.
const drawLength = entity.BoardSize + 1

type Square struct {
	Index  int         `json:"index"`
	Mark   entity.Mark `json:"mark"`
	Winner bool        `json:"winner,omitempty"`
}

type Move struct {
	Step     int    `json:"step"`
	Label    string `json:"label"`
	Position string `json:"position,omitempty"`
	Current  bool   `json:"current,omitempty"`
}

// Game - read-only render model of one game state.
type Game struct {
	Rows        [3][3]Square     `json:"rows"`
	Status      string           `json:"status"`
	Winner      entity.Mark      `json:"winner,omitempty"`
	WinningLine []int            `json:"winning_line,omitempty"`
	NextMark    entity.Mark      `json:"next_mark"`
	CurrentStep int              `json:"current_step"`
	Moves       []Move           `json:"moves"`
	Reversed    bool             `json:"reversed"`
	CanReverse  bool             `json:"can_reverse"`
	Variant     Variant          `json:"variant"`
	Position    *entity.Position `json:"position,omitempty"`
}

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantFull, "":
		return VariantFull, nil
	case VariantClassic:
		return VariantClassic, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}

// Full - reports whether the variant has highlight, draw and reverse features.
func (that Variant) Full() bool {
	return that != VariantClassic
}

func Build(state *entity.GameState, variant Variant) *Game {
	current := state.Current()
	result := entity.Evaluate(current.Squares)
	visible := state.Visible()

	game := &Game{
		Status:      Status(state, variant),
		Winner:      result.Winner,
		NextMark:    state.NextMark(),
		CurrentStep: state.CurrentStep,
		Moves:       Moves(visible, state.CurrentStep, variant.Full() && state.Reversed),
		Reversed:    variant.Full() && state.Reversed,
		CanReverse:  variant.Full(),
		Variant:     variant,
		Position:    current.Position,
	}

	if variant.Full() {
		game.WinningLine = result.Line
	}

	for i, mark := range current.Squares {
		game.Rows[i/3][i%3] = Square{
			Index:  i,
			Mark:   mark,
			Winner: variant.Full() && result.Contains(i),
		}
	}

	return game
}

// Status - the status line for the snapshot under the cursor.
func Status(state *entity.GameState, variant Variant) string {
	result := entity.Evaluate(state.Current().Squares)

	switch {
	case result.HasWinner():
		return "Winner: " + string(result.Winner)
	case variant.Full() && len(state.Visible()) >= drawLength:
		return "Draw"
	default:
		return "Next player: " + string(state.NextMark())
	}
}

// Moves - the move list for the visible history. Reversing changes the order
// of the entries, never the step each entry jumps to.
func Moves(history entity.History, currentStep int, reversed bool) []Move {
	moves := make([]Move, 0, len(history))

	for step, snapshot := range history {
		move := Move{
			Step:    step,
			Label:   "Go to game start",
			Current: step == currentStep,
		}

		if snapshot.Position != nil {
			move.Label = fmt.Sprintf("Go to move #%d", step)
			move.Position = fmt.Sprintf("(%d, %d)", snapshot.Position.Row, snapshot.Position.Col)
		}

		moves = append(moves, move)
	}

	if reversed {
		for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
			moves[i], moves[j] = moves[j], moves[i]
		}
	}

	return moves
}
