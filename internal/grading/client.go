package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/llm"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const maxErrorBody = 64 << 10

// Client is the HTTP Grader for the flashcards backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

type generateRequest struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
	Count int    `json:"count"`
}

type generateResponse struct {
	Questions []string `json:"questions"`
}

type evaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// GenerateQuestions calls POST {base}/flashcards.
func (c *Client) GenerateQuestions(ctx context.Context, params deck.GenerateParams) ([]string, error) {
	body := generateRequest{Topic: params.Topic, Level: string(params.Level), Count: params.Count}

	raw, err := c.post(ctx, OpGenerate, "/flashcards", body)
	if err != nil {
		return nil, err
	}
	if err := llm.Validate(questionsSchema(false), raw); err != nil {
		return nil, newError(OpGenerate, KindFailed, http.StatusOK, "", err)
	}

	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, newError(OpGenerate, KindFailed, http.StatusOK, "", err)
	}
	if n := len(resp.Questions); n > params.Count {
		c.logger.Debug("truncating generated questions", "got", n, "want", params.Count)
	}
	return truncate(resp.Questions, params.Count), nil
}

// EvaluateAnswer calls POST {base}/evaluate.
func (c *Client) EvaluateAnswer(ctx context.Context, question, answer string) (deck.Feedback, error) {
	raw, err := c.post(ctx, OpEvaluate, "/evaluate", evaluateRequest{Question: question, Answer: answer})
	if err != nil {
		return deck.Feedback{}, err
	}
	if err := llm.Validate(evaluationSchema(false), raw); err != nil {
		return deck.Feedback{}, newError(OpEvaluate, KindFailed, http.StatusOK, "", err)
	}

	var fb deck.Feedback
	if err := json.Unmarshal(raw, &fb); err != nil {
		return deck.Feedback{}, newError(OpEvaluate, KindFailed, http.StatusOK, "", err)
	}
	fb.Rating = deck.ClampRating(fb.Rating)
	return fb, nil
}

// Ping issues GET {base} so a sleeping backend starts up. Any HTTP
// response counts as awake.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil
}

// post sends body as JSON and returns the raw 2xx response body.
func (c *Client) post(ctx context.Context, op Op, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, newError(op, KindFailed, 0, "", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, newError(op, KindFailed, 0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("grading request failed", "op", op, "err", err)
		return nil, newError(op, KindFailed, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, newError(op, KindFailed, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("grading request",
		"op", op,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	return nil, classify(op, resp.StatusCode, raw)
}

// classify maps a non-2xx response to an *Error.
func classify(op Op, status int, raw []byte) *Error {
	var er errorResponse
	// A non-JSON error body is not itself an error; the status decides.
	_ = json.Unmarshal(raw, &er)

	msg := strings.TrimSpace(er.Error)

	switch {
	case status == http.StatusRequestEntityTooLarge || er.ErrorType == KindTokenLimit.String():
		return newError(op, KindTokenLimit, status, msg, nil)
	case status == http.StatusTooManyRequests:
		return newError(op, KindRateLimited, status, msg, nil)
	default:
		return newError(op, KindFailed, status, msg, nil)
	}
}
