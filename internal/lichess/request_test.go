package lichess_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/testutil/mocks"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     lichess.Request
		wantErr bool
	}{
		{"user", lichess.Request{Username: "alice"}, false},
		{"last", lichess.Request{Username: "alice", LastOnly: true}, false},
		{"game", lichess.Request{GameID: "abcd1234"}, false},
		{"empty", lichess.Request{Username: "  "}, true},
		{"both", lichess.Request{Username: "alice", GameID: "x"}, true},
		{"last with game", lichess.Request{GameID: "x", LastOnly: true}, true},
		{"negative max", lichess.Request{Username: "alice", Max: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestSource(t *testing.T) {
	assert.Equal(t, "lichess:user:alice", lichess.Request{Username: "alice"}.Source())
	assert.Equal(t, "lichess:last:alice", lichess.Request{Username: "alice", LastOnly: true}.Source())
	assert.Equal(t, "lichess:game:g1", lichess.Request{GameID: "g1"}.Source())
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockLichessClient)
	client.On("FetchGamePGN", mock.Anything, "g1").Return(models.RawGame{ID: "g1", PGN: "1. e4"}, nil)
	client.On("LastGameID", mock.Anything, "alice").Return("g1", nil)
	client.On("FetchUserGames", mock.Anything, "alice", lichess.Options{Max: 3, PerfType: "rapid"}).
		Return([]models.RawGame{{ID: "a"}, {ID: "b"}}, nil)
	client.On("FetchUserGames", mock.Anything, "nobody", mock.Anything).Return([]models.RawGame{}, nil)

	games, err := lichess.Collect(ctx, client, lichess.Request{GameID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, []models.RawGame{{ID: "g1", PGN: "1. e4"}}, games)

	games, err = lichess.Collect(ctx, client, lichess.Request{Username: "alice", LastOnly: true})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].ID)

	games, err = lichess.Collect(ctx, client, lichess.Request{Username: "alice", Max: 3, PerfType: "rapid"})
	require.NoError(t, err)
	assert.Len(t, games, 2)

	_, err = lichess.Collect(ctx, client, lichess.Request{Username: "nobody"})
	assert.ErrorIs(t, err, lichess.ErrNoGames)

	_, err = lichess.Collect(ctx, client, lichess.Request{})
	assert.Error(t, err)
}
