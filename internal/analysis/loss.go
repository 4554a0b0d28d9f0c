package analysis

import "github.com/vytor/movelens/internal/models"

// Loss is the evaluation the mover gave away with their move, in centipawns.
// Both evaluations are White-centric; a positive result is worse for the mover
// and a negative one means the move improved on the engine's expectation.
func Loss(before, after models.Evaluation, mover models.Color) int {
	b, a := before.Centipawns(), after.Centipawns()
	if mover == models.Black {
		return a - b
	}
	return b - a
}
