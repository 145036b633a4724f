package sheets

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls the backoff applied to quota errors.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns five attempts starting at 1.5s and doubling.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		InitialWait: 1500 * time.Millisecond,
		MaxWait:     30 * time.Second,
		Multiplier:  2.0,
	}
}

// Retry calls fn until it succeeds, fails with a non-quota error, or the
// attempts run out. Only quota errors are retried.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := RetryValue(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryValue is Retry for calls that return a value.
func RetryValue[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	attempts := max(cfg.MaxAttempts, 1)
	for attempt := range attempts {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !IsQuota(err) || ctx.Err() != nil {
			return zero, err
		}
		// Last attempt: don't sleep, just return the error.
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}
	return zero, lastErr
}

// backoff computes the wait duration for the given attempt.
func (cfg RetryConfig) backoff(attempt int) time.Duration {
	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	if cfg.MaxWait > 0 && wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}

// WithRetry wraps svc so that every call on it, and on the spreadsheets and
// worksheets it hands out, retries quota errors.
func WithRetry(svc Service, cfg RetryConfig) Service {
	return &retryService{inner: svc, cfg: cfg}
}

type retryService struct {
	inner Service
	cfg   RetryConfig
}

func (r *retryService) Open(ctx context.Context, url string) (Spreadsheet, error) {
	ss, err := RetryValue(ctx, r.cfg, func() (Spreadsheet, error) {
		return r.inner.Open(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return &retrySpreadsheet{inner: ss, cfg: r.cfg}, nil
}

type retrySpreadsheet struct {
	inner Spreadsheet
	cfg   RetryConfig
}

func (r *retrySpreadsheet) ID() string { return r.inner.ID() }

func (r *retrySpreadsheet) Worksheets(ctx context.Context) ([]Worksheet, error) {
	wss, err := RetryValue(ctx, r.cfg, func() ([]Worksheet, error) {
		return r.inner.Worksheets(ctx)
	})
	if err != nil {
		return nil, err
	}
	out := make([]Worksheet, len(wss))
	for i, ws := range wss {
		out[i] = &retryWorksheet{inner: ws, cfg: r.cfg}
	}
	return out, nil
}

func (r *retrySpreadsheet) Worksheet(ctx context.Context, title string) (Worksheet, error) {
	ws, err := RetryValue(ctx, r.cfg, func() (Worksheet, error) {
		return r.inner.Worksheet(ctx, title)
	})
	if err != nil {
		return nil, err
	}
	return &retryWorksheet{inner: ws, cfg: r.cfg}, nil
}

func (r *retrySpreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error) {
	ws, err := RetryValue(ctx, r.cfg, func() (Worksheet, error) {
		return r.inner.AddWorksheet(ctx, title, rows, cols)
	})
	if err != nil {
		return nil, err
	}
	return &retryWorksheet{inner: ws, cfg: r.cfg}, nil
}

type retryWorksheet struct {
	inner Worksheet
	cfg   RetryConfig
}

func (r *retryWorksheet) Title() string { return r.inner.Title() }

func (r *retryWorksheet) Values(ctx context.Context) ([][]string, error) {
	return RetryValue(ctx, r.cfg, func() ([][]string, error) {
		return r.inner.Values(ctx)
	})
}

func (r *retryWorksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	return RetryValue(ctx, r.cfg, func() ([]string, error) {
		return r.inner.RowValues(ctx, row)
	})
}

func (r *retryWorksheet) AppendRow(ctx context.Context, values []string) error {
	return Retry(ctx, r.cfg, func() error {
		return r.inner.AppendRow(ctx, values)
	})
}

func (r *retryWorksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	return Retry(ctx, r.cfg, func() error {
		return r.inner.UpdateRow(ctx, row, values)
	})
}

func (r *retryWorksheet) Clear(ctx context.Context) error {
	return Retry(ctx, r.cfg, func() error {
		return r.inner.Clear(ctx)
	})
}
