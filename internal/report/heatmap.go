package report

import (
	"io"

	"github.com/vytor/movelens/internal/models"
)

const fileLabels = "abcdefgh"

// WriteCounts draws an integer grid as an 8x8 board, rank 8 at the top.
func WriteCounts(w io.Writer, title string, g models.Grid[int]) error {
	return writeGrid(w, title, g, "%6d")
}

// WriteAverages draws a float grid as an 8x8 board, rank 8 at the top.
func WriteAverages(w io.Writer, title string, g models.Grid[float64]) error {
	return writeGrid(w, title, g, "%6.1f")
}

func writeGrid[T int | float64](w io.Writer, title string, g models.Grid[T], cell string) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n\n", title)
	for row := 0; row < 8; row++ {
		ew.printf("%d |", 8-row)
		for col := 0; col < 8; col++ {
			ew.printf(cell, g[row][col])
		}
		ew.printf("\n")
	}
	ew.printf("   ")
	for col := 0; col < 8; col++ {
		ew.printf("%6c", fileLabels[col])
	}
	ew.printf("\n")
	return ew.err
}

// WriteHeatmaps draws the frequency, blunder and average loss boards.
func WriteHeatmaps(w io.Writer, g models.SpatialGrid) error {
	if err := WriteCounts(w, "Move frequency per square", g.Frequency); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if err := WriteCounts(w, "Blunders per square", g.Blunders); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return WriteAverages(w, "Average loss per square", g.AverageLoss)
}
