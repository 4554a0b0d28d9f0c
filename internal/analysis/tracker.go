package analysis

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"

	apperrors "github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/models"
)

var errIllegalUCI = errors.New("move is not legal in this position")

// AppliedMove describes a move the tracker accepted.
type AppliedMove struct {
	Move       models.Move
	Mover      models.Color
	MoveNumber int
	FENBefore  string
	FENAfter   string
}

// Tracker holds the current board position of a game being replayed.
// Rejected moves leave the position untouched.
type Tracker struct {
	pos   *chess.Position
	moves []*chess.Move
}

// NewTracker starts from startFEN, or from the standard initial position
// when startFEN is empty.
func NewTracker(startFEN string) (*Tracker, error) {
	if strings.TrimSpace(startFEN) == "" {
		return &Tracker{pos: chess.NewGame().Position()}, nil
	}
	opt, err := chess.FEN(startFEN)
	if err != nil {
		return nil, &apperrors.ParseError{Reason: "invalid FEN: " + err.Error()}
	}
	return &Tracker{pos: chess.NewGame(opt).Position()}, nil
}

// Apply decodes token (SAN, or UCI long algebraic as a fallback) against the
// current position and plays it.
func (t *Tracker) Apply(token string) (AppliedMove, error) {
	fenBefore := t.pos.String()
	m, err := t.decode(token)
	if err != nil || m == nil {
		return AppliedMove{}, &apperrors.IllegalMoveError{Move: token, FEN: fenBefore}
	}

	next := t.pos.Update(m)
	if next == nil {
		return AppliedMove{}, &apperrors.IllegalMoveError{Move: token, FEN: fenBefore}
	}

	applied := AppliedMove{
		Move: models.Move{
			SAN:  chess.AlgebraicNotation{}.Encode(t.pos, m),
			UCI:  MoveToUCI(m),
			From: squareToString(m.S1()),
			To:   squareToString(m.S2()),
		},
		Mover:      t.Turn(),
		MoveNumber: fullMoveNumber(fenBefore),
		FENBefore:  fenBefore,
		FENAfter:   next.String(),
	}
	t.pos = next
	t.moves = append(t.moves, m)
	return applied, nil
}

var uciToken = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// decode reads token as UCI when it has that shape, since the SAN decoder
// also accepts some UCI strings as different moves (g1f3 as f3).
func (t *Tracker) decode(token string) (*chess.Move, error) {
	if lower := strings.ToLower(token); uciToken.MatchString(lower) {
		return t.decodeUCI(lower)
	}
	return (chess.AlgebraicNotation{}).Decode(t.pos, normalizeCastling(token))
}

// decodeUCI returns the legal move matching token. UCI decoding alone does
// not check legality.
func (t *Tracker) decodeUCI(token string) (*chess.Move, error) {
	m, err := (chess.UCINotation{}).Decode(t.pos, token)
	if err != nil {
		return nil, err
	}
	for _, v := range t.pos.ValidMoves() {
		if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
			legal := v
			return &legal, nil
		}
	}
	return nil, errIllegalUCI
}

// FEN is the current position.
func (t *Tracker) FEN() string {
	return t.pos.String()
}

// Turn is the side to move in the current position.
func (t *Tracker) Turn() models.Color {
	if t.pos.Turn() == chess.Black {
		return models.Black
	}
	return models.White
}

// Moves returns the moves applied so far.
func (t *Tracker) Moves() []*chess.Move {
	return t.moves
}

func normalizeCastling(token string) string {
	switch {
	case strings.HasPrefix(token, "0-0-0"):
		return "O-O-O" + token[5:]
	case strings.HasPrefix(token, "0-0"):
		return "O-O" + token[3:]
	}
	return token
}

func fullMoveNumber(fen string) int {
	parts := strings.Fields(fen)
	if len(parts) < 6 {
		return 0
	}
	n, err := strconv.Atoi(parts[5])
	if err != nil {
		return 0
	}
	return n
}
