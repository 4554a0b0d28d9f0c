package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/models"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		loss     int
		expected models.Severity
	}{
		{-500, models.SeverityNone},
		{0, models.SeverityNone},
		{49, models.SeverityNone},
		{50, models.SeverityInaccuracy},
		{149, models.SeverityInaccuracy},
		{150, models.SeverityMistake},
		{299, models.SeverityMistake},
		{300, models.SeverityBlunder},
		{models.MateScore * 2, models.SeverityBlunder},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, analysis.Classify(tt.loss), "loss %d", tt.loss)
		})
	}
}

func TestClassify_SignMatters(t *testing.T) {
	assert.Equal(t, models.SeverityBlunder, analysis.Classify(400))
	assert.Equal(t, models.SeverityNone, analysis.Classify(-400))
}

func TestLoss(t *testing.T) {
	tests := []struct {
		name     string
		before   models.Evaluation
		after    models.Evaluation
		mover    models.Color
		expected int
	}{
		{
			name:     "white blunder",
			before:   models.Centipawn(0),
			after:    models.Centipawn(-400),
			mover:    models.White,
			expected: 400,
		},
		{
			name:     "black blunder",
			before:   models.Centipawn(-100),
			after:    models.Centipawn(150),
			mover:    models.Black,
			expected: 250,
		},
		{
			name:     "white improves",
			before:   models.Centipawn(20),
			after:    models.Centipawn(60),
			mover:    models.White,
			expected: -40,
		},
		{
			name:     "black walks into mate",
			before:   models.Centipawn(-50),
			after:    models.Mate(2),
			mover:    models.Black,
			expected: models.MateScore + 50,
		},
		{
			name:     "white misses forced mate",
			before:   models.Mate(3),
			after:    models.Centipawn(500),
			mover:    models.White,
			expected: models.MateScore - 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loss := analysis.Loss(tt.before, tt.after, tt.mover)
			assert.Equal(t, tt.expected, loss)
		})
	}
}

func TestLossThenClassify_ScenarioWhiteDropsToMinus400(t *testing.T) {
	loss := analysis.Loss(models.Centipawn(0), models.Centipawn(-400), models.White)
	assert.Equal(t, 400, loss)
	assert.Equal(t, models.SeverityBlunder, analysis.Classify(loss))
}
