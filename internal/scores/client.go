package scores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/bugstroids/internal/apperr"
	"github.com/tomz197/bugstroids/internal/response"
)

// Client talks to a remote score server. Responses are requested as msgpack.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Compile-time check that Client implements Board.
var _ Board = (*Client)(nil)

// NewClient creates a client for the server at baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "score_client", "url", baseURL),
	}
}

func (c *Client) TopScores(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/scores", nil)
	if err != nil {
		return nil, apperr.WrapInternal("build request", err)
	}

	var entries []Entry
	if err := c.do(req, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) Submit(ctx context.Context, playerName string, score float64) (Entry, error) {
	body, err := json.Marshal(Submission{PlayerName: playerName, Score: &score})
	if err != nil {
		return Entry{}, apperr.WrapInternal("encode submission", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return Entry{}, apperr.WrapInternal("build request", err)
	}
	req.Header.Set("Content-Type", response.ContentTypeJSON)

	var entry Entry
	if err := c.do(req, &entry); err != nil {
		return Entry{}, err
	}
	c.logger.Debug("Score submitted", "id", entry.ID, "score", entry.Score)
	return entry, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", response.ContentTypeMsgpack)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.WrapExternal("score server unreachable", err)
	}
	defer resp.Body.Close()

	dec := msgpack.NewDecoder(resp.Body)
	if resp.StatusCode >= 300 {
		var body response.ErrorResponse
		if err := dec.Decode(&body); err != nil {
			return apperr.WrapExternal("score server", fmt.Errorf("status %d", resp.StatusCode))
		}
		if body.Error == string(apperr.ErrorTypeValidation) {
			return apperr.Validation(body.Message)
		}
		return apperr.WrapExternal("score server", fmt.Errorf("status %d: %s", resp.StatusCode, body.Message))
	}

	if err := dec.Decode(out); err != nil {
		return apperr.WrapExternal("decode score response", err)
	}
	return nil
}
