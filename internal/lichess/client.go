// Package lichess fetches games from the Lichess public API.
package lichess

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
)

const DefaultBaseURL = "https://lichess.org"

// ErrNoGames is returned when a user has no games matching the request.
var ErrNoGames = errors.New("no games found")

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Options narrows a user game export.
type Options struct {
	Max      int
	PerfType string // comma separated, e.g. "blitz,rapid"
	Rated    *bool
}

func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type exportedGame struct {
	ID  string `json:"id"`
	PGN string `json:"pgn"`
}

// FetchUserGames streams the user's most recent games as NDJSON. Lines that
// are not complete JSON objects are ignored.
func (c *Client) FetchUserGames(ctx context.Context, username string, opts Options) ([]models.RawGame, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("username", username)

	q := url.Values{}
	q.Set("pgnInJson", "true")
	if opts.Max > 0 {
		q.Set("max", strconv.Itoa(opts.Max))
	}
	if opts.PerfType != "" {
		q.Set("perfType", opts.PerfType)
	}
	if opts.Rated != nil {
		q.Set("rated", strconv.FormatBool(*opts.Rated))
	}
	endpoint := fmt.Sprintf("%s/api/games/user/%s?%s", c.baseURL, url.PathEscape(username), q.Encode())

	log.Debug("fetching games from: %s", endpoint)
	start := time.Now()

	resp, err := c.get(ctx, endpoint, "application/x-ndjson")
	if err != nil {
		log.Error("failed to fetch games: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("games response received in %v, status=%d", time.Since(start), resp.StatusCode)

	var games []models.RawGame
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var g exportedGame
		if err := json.Unmarshal([]byte(line), &g); err != nil {
			log.Debug("skipping malformed line: %v", err)
			continue
		}
		games = append(games, models.RawGame{ID: g.ID, PGN: g.PGN})
	}
	if err := sc.Err(); err != nil {
		log.Warn("game stream ended early after %d games: %v", len(games), err)
		if len(games) == 0 {
			return nil, err
		}
	}

	log.Info("fetched %d games for user %s", len(games), username)
	return games, nil
}

// FetchGamePGN downloads one game as PGN.
func (c *Client) FetchGamePGN(ctx context.Context, gameID string) (models.RawGame, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("game_id", gameID)
	endpoint := fmt.Sprintf("%s/game/export/%s.pgn", c.baseURL, url.PathEscape(gameID))

	resp, err := c.get(ctx, endpoint, "application/x-chess-pgn")
	if err != nil {
		log.Error("failed to fetch game: %v", err)
		return models.RawGame{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read game body: %v", err)
		return models.RawGame{}, err
	}
	log.Debug("fetched game PGN (%d bytes)", len(body))
	return models.RawGame{ID: gameID, PGN: string(body)}, nil
}

// LastGameID returns the id of the user's most recent game.
func (c *Client) LastGameID(ctx context.Context, username string) (string, error) {
	games, err := c.FetchUserGames(ctx, username, Options{Max: 1})
	if err != nil {
		return "", err
	}
	if len(games) == 0 {
		return "", fmt.Errorf("user %s: %w", username, ErrNoGames)
	}
	return games[0].ID, nil
}

// Account is the subset of /api/account used to confirm a token works.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// VerifyToken checks the configured token against the account endpoint.
func (c *Client) VerifyToken(ctx context.Context) (Account, error) {
	if c.token == "" {
		return Account{}, errors.New("no API token configured")
	}
	resp, err := c.get(ctx, c.baseURL+"/api/account", "application/json")
	if err != nil {
		return Account{}, err
	}
	defer resp.Body.Close()

	var acct Account
	if err := json.NewDecoder(resp.Body).Decode(&acct); err != nil {
		return Account{}, fmt.Errorf("decode account: %w", err)
	}
	return acct, nil
}

// get issues an authenticated GET and turns non-200 replies into errors.
// The caller closes the body on success.
func (c *Client) get(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

// StatusError is a non-200 reply from Lichess.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lichess returned status %d: %s", e.Code, e.Body)
}
