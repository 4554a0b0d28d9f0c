package pgn

import (
	"errors"
	"strings"
	"unicode"
)

var (
	errUnterminatedComment   = errors.New("unterminated comment")
	errUnterminatedVariation = errors.New("unterminated variation")
	errUnbalancedVariation   = errors.New("unbalanced variation")
)

// Moves returns the mainline move tokens of a game, in order. Headers,
// comments, variations, NAGs, move numbers, annotation glyphs and the result
// marker are dropped. Tokens are not validated as moves.
func Moves(pgn string) ([]string, error) {
	text := stripHeaders(pgn)

	var (
		sb    strings.Builder
		depth int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return nil, errUnterminatedComment
			}
			i += end
			sb.WriteByte(' ')
		case c == ';':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				i = len(text)
			} else {
				i += end
			}
			sb.WriteByte(' ')
		case c == '(':
			depth++
			sb.WriteByte(' ')
		case c == ')':
			if depth == 0 {
				return nil, errUnbalancedVariation
			}
			depth--
			sb.WriteByte(' ')
		case depth > 0:
		default:
			sb.WriteByte(c)
		}
	}
	if depth > 0 {
		return nil, errUnterminatedVariation
	}

	var moves []string
	for _, tok := range strings.Fields(sb.String()) {
		if tok = cleanToken(tok); tok != "" {
			moves = append(moves, tok)
		}
	}
	return moves, nil
}

func stripHeaders(pgn string) string {
	var sb strings.Builder
	for _, line := range strings.Split(pgn, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cleanToken(tok string) string {
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return ""
	}
	if strings.HasPrefix(tok, "$") {
		return ""
	}
	// "12." "12..." or "12.e4"
	i := 0
	for i < len(tok) && unicode.IsDigit(rune(tok[i])) {
		i++
	}
	if i > 0 && i < len(tok) && tok[i] == '.' {
		tok = strings.TrimLeft(tok[i:], ".")
	} else if i == len(tok) {
		return ""
	}
	return strings.TrimRight(tok, "!?")
}
