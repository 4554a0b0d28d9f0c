package analysis

import (
	"fmt"

	"github.com/corentings/chess/v2"
)

// MoveToUCI converts a chess Move to UCI format (e.g., "e2e4", "e7e8q")
func MoveToUCI(move *chess.Move) string {
	if move == nil {
		return ""
	}

	uci := squareToString(move.S1()) + squareToString(move.S2())

	switch move.Promo() {
	case chess.Queen:
		uci += "q"
	case chess.Rook:
		uci += "r"
	case chess.Bishop:
		uci += "b"
	case chess.Knight:
		uci += "n"
	}

	return uci
}

// squareToString converts a Square to algebraic notation (e.g., "e2", "a8")
func squareToString(sq chess.Square) string {
	return fmt.Sprintf("%c%c", 'a'+rune(sq.File()), '1'+rune(sq.Rank()))
}

// squareCoords maps an algebraic square to heatmap grid coordinates: row 0 is
// rank 8 and column 0 is file a.
func squareCoords(sq string) (row, col int, ok bool) {
	if len(sq) != 2 {
		return 0, 0, false
	}
	file, rank := sq[0], sq[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, 0, false
	}
	return 7 - int(rank-'1'), int(file - 'a'), true
}
