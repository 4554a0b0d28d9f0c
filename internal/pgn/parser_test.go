package pgn_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/pgn"
)

const lichessGame = `[Event "Rated Blitz game"]
[Site "https://lichess.org/AbCd1234"]
[Date "2024.03.02"]
[White "alice"]
[Black "bob"]
[Result "0-1"]
[ECO "C20"]
[Opening "King's Pawn Game"]

1. e4 { [%eval 0.2] } 1... e5 2. Qh5?! Nc6 3. Bc4 Nf6?? (3... g6 4. Qf3) 4. Qxf7# $1 0-1`

func TestParsePGNHeaders_ValidHeaders(t *testing.T) {
	headers := pgn.ParsePGNHeaders(lichessGame)

	assert.Equal(t, "Rated Blitz game", headers["Event"])
	assert.Equal(t, "https://lichess.org/AbCd1234", headers["Site"])
	assert.Equal(t, "alice", headers["White"])
	assert.Equal(t, "bob", headers["Black"])
	assert.Equal(t, "C20", headers["ECO"])
	assert.Equal(t, "King's Pawn Game", headers["Opening"])
}

func TestParsePGNHeaders_EmptyAndMalformed(t *testing.T) {
	assert.Empty(t, pgn.ParsePGNHeaders(""))
	assert.Empty(t, pgn.ParsePGNHeaders(`1. e4 e5 2. Nf3 Nc6`))
	assert.Empty(t, pgn.ParsePGNHeaders("[Event Live Chess]\n[Invalid header]\n1. e4 e5"),
		"malformed headers should be ignored")
}

func TestMoves_StripsAnnotations(t *testing.T) {
	moves, err := pgn.Moves(lichessGame)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#"}, moves)
}

func TestMoves_Variants(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"compact numbers", "1.e4 e5 2.Nf3", []string{"e4", "e5", "Nf3"}},
		{"nested variations", "1. e4 (1. d4 d5 (1... Nf6)) e5 *", []string{"e4", "e5"}},
		{"line comment", "1. e4 ; best by test\ne5", []string{"e4", "e5"}},
		{"castling with zeros", "1. 0-0 0-0-0 1/2-1/2", []string{"0-0", "0-0-0"}},
		{"uci tokens", "e2e4 e7e5", []string{"e2e4", "e7e5"}},
		{"promotion", "54. a8=Q+ Kb7", []string{"a8=Q+", "Kb7"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moves, err := pgn.Moves(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, moves)
		})
	}
}

func TestMoves_Malformed(t *testing.T) {
	for _, text := range []string{"1. e4 { never closed", "1. e4 (1. d4", "1. e4 ) e5"} {
		_, err := pgn.Moves(text)
		assert.Error(t, err, text)
	}
}

func TestParse(t *testing.T) {
	g, err := pgn.Parse(models.RawGame{PGN: lichessGame})
	require.NoError(t, err)

	assert.Equal(t, "AbCd1234", g.ID)
	assert.Equal(t, "alice", g.White)
	assert.Equal(t, "bob", g.Black)
	assert.Equal(t, "0-1", g.Result)
	assert.Equal(t, "C20", g.ECO)
	assert.Len(t, g.Moves, 7)
	assert.Empty(t, g.StartFEN)
}

func TestParse_IDPrecedence(t *testing.T) {
	g, err := pgn.Parse(models.RawGame{ID: "given", PGN: lichessGame})
	require.NoError(t, err)
	assert.Equal(t, "given", g.ID)

	g, err = pgn.Parse(models.RawGame{PGN: "[GameId \"zzzz9999\"]\n[Site \"https://lichess.org/AbCd1234\"]\n\n1. e4"})
	require.NoError(t, err)
	assert.Equal(t, "zzzz9999", g.ID)
}

func TestParse_FENHeader(t *testing.T) {
	g, err := pgn.Parse(models.RawGame{ID: "x", PGN: "[FEN \"8/P7/8/8/8/8/8/1k5K w - - 0 40\"]\n[SetUp \"1\"]\n\n40. a8=Q"})
	require.NoError(t, err)
	assert.Equal(t, "8/P7/8/8/8/8/8/1k5K w - - 0 40", g.StartFEN)
	assert.Equal(t, []string{"a8=Q"}, g.Moves)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawGame
	}{
		{"empty", models.RawGame{ID: "e", PGN: "   \n"}},
		{"only result", models.RawGame{ID: "r", PGN: "*"}},
		{"bad comment", models.RawGame{ID: "c", PGN: "[White \"a\"]\n\n1. e4 {oops"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pgn.Parse(tt.raw)
			var pe *apperrors.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.raw.ID, pe.GameID)
		})
	}
}

func TestNormalizeGameID(t *testing.T) {
	tests := []struct {
		site     string
		expected string
	}{
		{"https://lichess.org/AbCd1234", "AbCd1234"},
		{"https://lichess.org/AbCd1234/black", "AbCd1234"},
		{"https://lichess.org/AbCd1234EfGh", "AbCd1234EfGh"},
		{"http://lichess.org/AbCd1234#12", "AbCd1234"},
		{"https://example.com/game/123", "https://example.com/game/123"},
		{" AbCd1234 ", "AbCd1234"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			assert.Equal(t, tt.expected, pgn.NormalizeGameID(tt.site))
		})
	}
}

func TestSplitAndParseAll(t *testing.T) {
	doc := lichessGame + "\n\n[Event \"Casual\"]\n[White \"carol\"]\n\n1. d4 d5 *\n\n[Event \"Broken\"]\n\n1. e4 {unterminated\n"

	chunks := pgn.Split(doc)
	require.Len(t, chunks, 3)

	games, errs := pgn.ParseAll(doc)
	require.Len(t, games, 2)
	require.Len(t, errs, 1)

	assert.Equal(t, "AbCd1234", games[0].ID)
	assert.Equal(t, "game-2", games[1].ID)
	assert.Equal(t, []string{"d4", "d5"}, games[1].Moves)
}

func TestGameID_OnlyLichessSitesNameGames(t *testing.T) {
	tests := []struct {
		name     string
		raw      models.RawGame
		expected string
	}{
		{"explicit id wins", models.RawGame{ID: "given", PGN: "[Site \"https://lichess.org/AbCd1234\"]\n\n1. e4 *"}, "given"},
		{"game id header", models.RawGame{PGN: "[GameId \"EfGh5678\"]\n[Site \"https://lichess.org/AbCd1234\"]\n\n1. e4 *"}, "EfGh5678"},
		{"lichess site", models.RawGame{PGN: "[Site \"https://lichess.org/AbCd1234\"]\n\n1. e4 *"}, "AbCd1234"},
		{"lichess link", models.RawGame{PGN: "[Site \"Chess.com\"]\n[Link \"https://lichess.org/EfGh5678/black\"]\n\n1. e4 *"}, "EfGh5678"},
		{"other site", models.RawGame{PGN: "[Site \"Chess.com\"]\n\n1. e4 *"}, ""},
		{"internet", models.RawGame{PGN: "[Site \"Internet\"]\n\n1. e4 *"}, ""},
		{"unknown site", models.RawGame{PGN: "[Site \"?\"]\n\n1. e4 *"}, ""},
		{"other url", models.RawGame{PGN: "[Site \"https://www.chess.com/game/live/123\"]\n\n1. e4 *"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pgn.GameID(tt.raw))

			game, err := pgn.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, game.ID)
		})
	}
}

func TestParseAll_SharedSiteNameGetsPositionalIDs(t *testing.T) {
	doc := "[Site \"Chess.com\"]\n[White \"alice\"]\n\n1. e4 *\n\n[Site \"Chess.com\"]\n[White \"carol\"]\n\n1. d4 *\n"

	games, errs := pgn.ParseAll(doc)
	require.Empty(t, errs)
	require.Len(t, games, 2)
	assert.Equal(t, "game-1", games[0].ID)
	assert.Equal(t, "game-2", games[1].ID)
}

func TestLichessGameID(t *testing.T) {
	id, ok := pgn.LichessGameID("https://lichess.org/AbCd1234?x=1")
	assert.True(t, ok)
	assert.Equal(t, "AbCd1234", id)

	for _, site := range []string{"Chess.com", "?", "Internet", "lichess.org", "https://lichess.org/short"} {
		_, ok := pgn.LichessGameID(site)
		assert.False(t, ok, site)
	}
}
