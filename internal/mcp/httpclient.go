package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/fittrack/internal/exercise"
	"github.com/claude/fittrack/internal/workout"
)

// HTTPClient implements Backend by calling the FitTrack REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the catalog lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on mutating requests when non-empty.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response. It unwraps to the matching domain sentinel
// so callers can use errors.Is the same way as with a local tracker.
type APIError struct {
	Path        string
	Status      int
	Message     string
	Suggestions []string
	sentinel    error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s returned %d: %s", e.Path, e.Status, e.Message)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.sentinel }

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" && method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(path, resp.StatusCode, data)
	}
	return data, nil
}

func apiError(path string, status int, body []byte) error {
	e := &APIError{Path: path, Status: status, Message: strings.TrimSpace(string(body))}
	var payload struct {
		Error       string   `json:"error"`
		Suggestions []string `json:"suggestions"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		e.Message = payload.Error
		e.Suggestions = payload.Suggestions
	}

	switch status {
	case http.StatusBadRequest:
		e.sentinel = exercise.ErrInvalidArgument
	case http.StatusConflict:
		e.sentinel = workout.ErrDuplicateName
	case http.StatusNotFound:
		if strings.HasPrefix(path, "/api/v1/routine/") {
			e.sentinel = workout.ErrRoutineEmpty
		} else {
			e.sentinel = workout.ErrNotFound
		}
	}
	return e
}

func decodeInto[T any](data []byte, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("httpclient: decode: %w", err)
	}
	return v, nil
}

func exercisePath(name string) string {
	return "/api/v1/exercises/" + url.PathEscape(name)
}

func (c *HTTPClient) ListExercises(ctx context.Context, opts workout.ListOptions) ([]exercise.Record, error) {
	params := url.Values{}
	if opts.SortKey != "" {
		params.Set("sort", opts.SortKey)
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	return decodeInto[[]exercise.Record](c.do(ctx, http.MethodGet, "/api/v1/exercises", params, nil))
}

func (c *HTTPClient) GetExercise(ctx context.Context, name string) (exercise.Record, error) {
	return decodeInto[exercise.Record](c.do(ctx, http.MethodGet, exercisePath(name), nil, nil))
}

func (c *HTTPClient) AddExercise(ctx context.Context, f exercise.Fields) (exercise.Record, error) {
	return decodeInto[exercise.Record](c.do(ctx, http.MethodPost, "/api/v1/exercises", nil, f))
}

func (c *HTTPClient) EditExercise(ctx context.Context, name string, f exercise.Fields) (exercise.Record, error) {
	return decodeInto[exercise.Record](c.do(ctx, http.MethodPatch, exercisePath(name), nil, f))
}

func (c *HTTPClient) DeleteExercise(ctx context.Context, name string) (exercise.Record, error) {
	return decodeInto[exercise.Record](c.do(ctx, http.MethodDelete, exercisePath(name), nil, nil))
}

func (c *HTTPClient) AddToRoutine(ctx context.Context, name string) (exercise.Record, error) {
	resp, err := decodeInto[struct {
		Added exercise.Record `json:"added"`
	}](c.do(ctx, http.MethodPost, "/api/v1/routine", nil, map[string]string{"name": name}))
	return resp.Added, err
}

func (c *HTTPClient) Routine(ctx context.Context) ([]exercise.Record, error) {
	return decodeInto[[]exercise.Record](c.do(ctx, http.MethodGet, "/api/v1/routine", nil, nil))
}

func (c *HTTPClient) CompleteNext(ctx context.Context) (exercise.Record, error) {
	return decodeInto[exercise.Record](c.do(ctx, http.MethodPost, "/api/v1/routine/complete", nil, nil))
}

func (c *HTTPClient) ClearRoutine(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/routine", nil, nil)
	return err
}

// Stats returns catalog and routine sizes from the server.
func (c *HTTPClient) Stats(ctx context.Context) (workout.Stats, error) {
	return decodeInto[workout.Stats](c.do(ctx, http.MethodGet, "/api/v1/stats", nil, nil))
}

var errEmptyBaseURL = errors.New("httpclient: empty base URL")

// Ping checks the server is reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.baseURL == "" {
		return errEmptyBaseURL
	}
	_, err := c.Stats(ctx)
	return err
}
