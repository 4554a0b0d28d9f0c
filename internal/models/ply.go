package models

import (
	"fmt"
	"strings"
)

// Color is the side that made a move.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Severity is the mistake tier a centipawn loss falls into.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInaccuracy
	SeverityMistake
	SeverityBlunder
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityInaccuracy:
		return "inaccuracy"
	case SeverityMistake:
		return "mistake"
	case SeverityBlunder:
		return "blunder"
	default:
		return "unknown"
	}
}

// Label is the capitalized name used in text reports.
func (s Severity) Label() string {
	str := s.String()
	return strings.ToUpper(str[:1]) + str[1:]
}

// ParseSeverity parses the lower-case name produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return SeverityNone, nil
	case "inaccuracy":
		return SeverityInaccuracy, nil
	case "mistake":
		return SeverityMistake, nil
	case "blunder":
		return SeverityBlunder, nil
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Move is one applied move, in SAN and UCI form plus its squares ("e2", "e4").
type Move struct {
	SAN  string `json:"san"`
	UCI  string `json:"uci"`
	From string `json:"from"`
	To   string `json:"to"`
}

// PlyRecord is the evaluation of a single applied move.
type PlyRecord struct {
	Ply        int        `json:"ply"`         // 1-based index in the game's move text
	MoveNumber int        `json:"move_number"` // full-move number from the position
	Mover      Color      `json:"mover"`
	Move       Move       `json:"move"`
	EvalBefore Evaluation `json:"eval_before"`
	EvalAfter  Evaluation `json:"eval_after"`
	Loss       int        `json:"loss"` // positive is worse for Mover
	Severity   Severity   `json:"severity"`
}

// Notation renders the ply like "12. Nf3" or "12... Nf6".
func (p PlyRecord) Notation() string {
	n := p.MoveNumber
	if n == 0 {
		n = (p.Ply + 1) / 2
	}
	if p.Mover == Black {
		return fmt.Sprintf("%d... %s", n, p.Move.SAN)
	}
	return fmt.Sprintf("%d. %s", n, p.Move.SAN)
}

// SkippedMove records a move that could not be applied to the position.
type SkippedMove struct {
	Ply    int    `json:"ply"`
	Move   string `json:"move"`
	Reason string `json:"reason"`
}
