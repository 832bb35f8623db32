package domain

import "github.com/ChizhovVadim/KifuGo/pkg/board"

const (
	WinnerBlack = 0
	WinnerWhite = 1
)

// GameRecord is one row of the KIFU table.
type GameRecord struct {
	ID         int64
	Winner     int
	Generation *int
	Records    []byte
}

type Example struct {
	Snapshot board.Snapshot
	Label    int
}
