package models

import "fmt"

// MateScore is the centipawn magnitude a forced mate collapses to. It must stay
// above any centipawn value an engine realistically reports.
const MateScore = 10000

// EvalKind tags an Evaluation as a centipawn score or a forced mate.
type EvalKind string

const (
	EvalCentipawn EvalKind = "cp"
	EvalMate      EvalKind = "mate"
)

// Evaluation is an engine verdict on a position, always from White's side:
// positive favors White. For EvalMate, Value is the signed mate distance.
type Evaluation struct {
	Kind  EvalKind `json:"kind"`
	Value int      `json:"value"`
}

// Centipawn builds a centipawn evaluation.
func Centipawn(cp int) Evaluation {
	return Evaluation{Kind: EvalCentipawn, Value: cp}
}

// Mate builds a mate evaluation. A positive distance means White mates.
func Mate(distance int) Evaluation {
	return Evaluation{Kind: EvalMate, Value: distance}
}

// IsMate reports whether the evaluation is a forced mate.
func (e Evaluation) IsMate() bool {
	return e.Kind == EvalMate
}

// Centipawns puts the evaluation on the common numeric scale: centipawn
// values pass through, mates saturate at +/-MateScore keeping their sign.
func (e Evaluation) Centipawns() int {
	if e.Kind != EvalMate {
		return e.Value
	}
	switch {
	case e.Value > 0:
		return MateScore
	case e.Value < 0:
		return -MateScore
	default:
		return 0
	}
}

func (e Evaluation) String() string {
	if e.Kind == EvalMate {
		return fmt.Sprintf("mate %d", e.Value)
	}
	return fmt.Sprintf("cp %d", e.Value)
}
