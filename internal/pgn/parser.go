// Package pgn reads PGN text into header maps and move token lists.
package pgn

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/models"
)

var headerRe = regexp.MustCompile(`\[(\w+)\s+"([^"]+)"\]`)

// ParsePGNHeaders extracts PGN header tags into a map
func ParsePGNHeaders(pgn string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(pgn, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 {
			out[m[1]] = m[2]
		}
	}
	return out
}

var gameIDRe = regexp.MustCompile(`^https?://(?:[\w-]+\.)?lichess\.org/([A-Za-z0-9]{8,12})(?:[/?#].*)?$`)

// NormalizeGameID turns a Site header or game URL like
// https://lichess.org/AbCd1234/black into the bare id. Anything else is
// returned trimmed but otherwise unchanged.
func NormalizeGameID(site string) string {
	site = strings.TrimSpace(site)
	if id, ok := LichessGameID(site); ok {
		return id
	}
	return site
}

// LichessGameID extracts the game id from a Lichess game URL. ok is false
// for anything else, including bare site names like "Chess.com" or "?".
func LichessGameID(url string) (id string, ok bool) {
	if m := gameIDRe.FindStringSubmatch(strings.TrimSpace(url)); len(m) == 2 {
		return m[1], true
	}
	return "", false
}

// GameID names raw: raw.ID, then the GameId header, then a Lichess URL in
// the Site or Link header. It is empty when none of those identify the game.
func GameID(raw models.RawGame) string {
	if id := strings.TrimSpace(raw.ID); id != "" {
		return id
	}
	return HeaderGameID(ParsePGNHeaders(raw.PGN))
}

// HeaderGameID is GameID for already parsed headers.
func HeaderGameID(headers map[string]string) string {
	if id := strings.TrimSpace(headers["GameId"]); id != "" {
		return id
	}
	for _, key := range []string{"Site", "Link"} {
		if id, ok := LichessGameID(headers[key]); ok {
			return id
		}
	}
	return ""
}

// Parse reads one game. The id is GameID's; it stays empty when nothing
// identifies the game, and the caller names it.
func Parse(raw models.RawGame) (models.ParsedGame, error) {
	if strings.TrimSpace(raw.PGN) == "" {
		return models.ParsedGame{}, &apperrors.ParseError{GameID: raw.ID, Reason: "empty PGN"}
	}

	headers := ParsePGNHeaders(raw.PGN)
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = HeaderGameID(headers)
	}

	moves, err := Moves(raw.PGN)
	if err != nil {
		return models.ParsedGame{}, &apperrors.ParseError{GameID: id, Reason: err.Error()}
	}
	if len(moves) == 0 && len(headers) == 0 {
		return models.ParsedGame{}, &apperrors.ParseError{GameID: id, Reason: "no headers or moves"}
	}

	return models.ParsedGame{
		ID:       id,
		Headers:  headers,
		White:    headers["White"],
		Black:    headers["Black"],
		Result:   headers["Result"],
		Opening:  headers["Opening"],
		ECO:      headers["ECO"],
		StartFEN: headers["FEN"],
		Moves:    moves,
	}, nil
}

// ParseAll splits a multi-game PGN document and parses each game. Games
// that fail to parse are reported and skipped. Games without any id are
// named game-N by position in the document.
func ParseAll(text string) ([]models.ParsedGame, []error) {
	var (
		games []models.ParsedGame
		errs  []error
	)
	for i, chunk := range Split(text) {
		g, err := Parse(models.RawGame{PGN: chunk})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if g.ID == "" {
			g.ID = fmt.Sprintf("game-%d", i+1)
		}
		games = append(games, g)
	}
	return games, errs
}

// Split cuts a PGN document into single games. A header line that follows
// move text starts a new game.
func Split(text string) []string {
	var (
		games   []string
		current strings.Builder
		inMoves bool
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			games = append(games, s)
		}
		current.Reset()
		inMoves = false
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		isHeader := strings.HasPrefix(trimmed, "[")
		if isHeader && inMoves {
			flush()
		}
		if !isHeader && trimmed != "" {
			inMoves = true
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()
	return games
}
