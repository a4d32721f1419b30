package llm

import (
	"context"
	"log/slog"
	"time"
)

// logged records every request with its purpose, latency and token usage.
type logged struct {
	inner  Provider
	name   string
	logger *slog.Logger
}

// WithLogging wraps p with structured request logging.
func WithLogging(p Provider, name string, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &logged{inner: p, name: name, logger: logger}
}

func (l *logged) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"provider", l.name,
		"model", l.inner.ModelID(),
		"purpose", req.Purpose,
		"schema", schemaName(req.Schema),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(attrs, "err", err)...)
		return nil, err
	}
	l.logger.Debug("llm request", append(attrs,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)...)
	return resp, nil
}

func (l *logged) ModelID() string { return l.inner.ModelID() }

func schemaName(s *Schema) string {
	if s == nil {
		return ""
	}
	return s.Name
}

// timeout bounds every Generate call.
type timeout struct {
	inner Provider
	d     time.Duration
}

// WithTimeout wraps p so each request is cancelled after d. A zero d
// returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeout{inner: p, d: d}
}

func (t *timeout) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeout) ModelID() string { return t.inner.ModelID() }
