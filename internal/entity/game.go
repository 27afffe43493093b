package entity

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// WinCombos - the lines checked by Evaluate, in the order they are checked: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

// Position - 1-indexed row and column of a move.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Snapshot - the board after a move together with the position of that move.
// The initial snapshot has no position.
type Snapshot struct {
	Squares  Board     `json:"squares"`
	Position *Position `json:"position,omitempty"`
}

type History []Snapshot

// GameState - the whole state of one game session.
type GameState struct {
	History     History `json:"history"`
	CurrentStep int     `json:"current_step"`
	Reversed    bool    `json:"reversed"`
}

// WinResult - the first completed line of a board, if any.
type WinResult struct {
	Winner Mark  `json:"winner,omitempty"`
	Line   []int `json:"line,omitempty"`
}

func NewGameState() *GameState {
	return &GameState{
		History: History{{}},
	}
}

// Current - returns the snapshot under the cursor.
func (that *GameState) Current() Snapshot {
	return that.History[that.CurrentStep]
}

// NextMark - X moves on even steps, O on odd ones.
func (that *GameState) NextMark() Mark {
	if that.CurrentStep%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// Visible - the history up to and including the cursor.
func (that *GameState) Visible() History {
	return that.History[:that.CurrentStep+1]
}

// Valid - reports whether the state can be used by the controller.
// A decoded session record that fails this check is treated as corrupt.
func (that *GameState) Valid() bool {
	if len(that.History) == 0 {
		return false
	}

	return that.CurrentStep >= 0 && that.CurrentStep < len(that.History)
}

func (that WinResult) HasWinner() bool {
	return that.Winner != EmptyCell
}

// Contains - reports whether the cell is part of the winning line.
func (that WinResult) Contains(cell int) bool {
	for _, i := range that.Line {
		if i == cell {
			return true
		}
	}
	return false
}

// Evaluate - returns the first line whose three cells hold the same mark.
func Evaluate(board Board) WinResult {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return WinResult{
				Winner: a,
				Line:   []int{combo[0], combo[1], combo[2]},
			}
		}
	}

	return WinResult{}
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}
