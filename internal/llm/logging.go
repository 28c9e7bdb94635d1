package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// loggingProvider records every model call with latency and token
// usage. Logging never fails the request.
type loggingProvider struct {
	inner Provider
	log   *zap.SugaredLogger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, log *zap.SugaredLogger) Provider {
	return &loggingProvider{inner: p, log: log}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	fields := []any{
		"model", l.inner.ModelID(),
		"latency_ms", latency.Milliseconds(),
	}
	if req.Schema != nil {
		fields = append(fields, "schema", req.Schema.Name)
	}
	if resp != nil {
		fields = append(fields,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}

	if err != nil {
		l.log.Warnw("llm request failed", append(fields, "error", err)...)
	} else {
		l.log.Debugw("llm request", fields...)
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
