package report

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/vytor/movelens/internal/models"
)

var promptIntro = heredoc.Doc(`
	You are a chess expert. Explain why the following moves were bad.
	For each move provide concise tactical/strategic reasons and avoid hallucination.
`)

const promptOutro = "Explain concisely and base the explanation on standard chess principles."

// ExplainPrompt builds the request handed to a language model asking it to
// explain the given moves. The model itself is not called here.
func ExplainPrompt(bad []models.RankedPly) string {
	var b strings.Builder
	b.WriteString(promptIntro)
	b.WriteString("\n")
	for _, p := range bad {
		fmt.Fprintf(&b, "- Move %s\n", p.Description)
	}
	b.WriteString("\n")
	b.WriteString(promptOutro)
	return b.String()
}
