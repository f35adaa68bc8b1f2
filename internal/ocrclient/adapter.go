package ocrclient

import (
	"context"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fashionops/ordex/internal/metrics"
)

// cellPadding is the number of pixels added around a cell before OCR.
const cellPadding = 2

// RetryConfig bounds OCR backend calls.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts" json:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"      yaml:"backoff"      json:"backoff"`
	Timeout     time.Duration `mapstructure:"timeout"      yaml:"timeout"      json:"timeout"`
}

// DefaultRetryConfig returns the default retry policy: three attempts with
// linear backoff and a 30s per-call timeout.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, Backoff: 500 * time.Millisecond, Timeout: 30 * time.Second}
}

// Adapter wraps an Engine with retry, timeout, cleanup and instrumentation.
// It never lets a backend failure escape as a hard error: exhausted retries
// yield an empty RawText plus ErrBackendUnavailable for the caller to log.
type Adapter struct {
	engine Engine
	retry  RetryConfig
	log    *slog.Logger
}

// NewAdapter wraps the given engine. A nil logger falls back to slog.Default.
func NewAdapter(engine Engine, retry RetryConfig, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Adapter{engine: engine, retry: retry, log: log}
}

// Close releases the wrapped engine.
func (a *Adapter) Close() error { return a.engine.Close() }

// Text performs one OCR call with retry and timeout. The returned error is
// either nil or wraps ErrBackendUnavailable; the RawText is always usable.
func (a *Adapter) Text(ctx context.Context, img image.Image, mode Mode) (RawText, error) {
	var lastErr error
	for attempt := 1; attempt <= a.retry.MaxAttempts; attempt++ {
		raw, err := a.recognizeOnce(ctx, img, mode)
		if err == nil {
			metrics.OCRAttempts.WithLabelValues(string(mode), "ok").Inc()
			raw.Text = NormalizeText(raw.Text)
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		metrics.OCRAttempts.WithLabelValues(string(mode), "retry").Inc()
		a.log.Warn("ocr attempt failed",
			"mode", string(mode), "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			attempt = a.retry.MaxAttempts
		case <-time.After(a.retry.Backoff * time.Duration(attempt)):
		}
	}

	metrics.OCRAttempts.WithLabelValues(string(mode), "failed").Inc()
	a.log.Error("ocr backend unavailable", "mode", string(mode), "error", lastErr)
	return RawText{}, ErrBackendUnavailable
}

func (a *Adapter) recognizeOnce(ctx context.Context, img image.Image, mode Mode) (RawText, error) {
	callCtx := ctx
	if a.retry.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.retry.Timeout)
		defer cancel()
	}

	start := time.Now()
	type outcome struct {
		raw RawText
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		raw, err := a.engine.Recognize(callCtx, img, mode)
		done <- outcome{raw, err}
	}()

	select {
	case <-callCtx.Done():
		// The in-flight call is abandoned; its goroutine drains into the
		// buffered channel.
		metrics.OCRDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		return RawText{}, callCtx.Err()
	case out := <-done:
		metrics.OCRDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		return out.raw, out.err
	}
}

// FullPage runs both general and table modes and concatenates the outputs:
// either mode alone under-recovers the mixed tabular/paragraph layouts of
// order documents.
func (a *Adapter) FullPage(ctx context.Context, img image.Image) (RawText, error) {
	general, errG := a.Text(ctx, img, ModeGeneral)
	table, errT := a.Text(ctx, img, ModeTable)

	var parts []string
	if general.Text != "" {
		parts = append(parts, general.Text)
	}
	if table.Text != "" {
		parts = append(parts, table.Text)
	}
	raw := RawText{
		Text:   strings.Join(parts, "\n"),
		Tokens: append(general.Tokens, table.Tokens...),
	}
	if errG != nil && errT != nil {
		return raw, ErrBackendUnavailable
	}
	return raw, nil
}

// Cell OCRs a single grid cell with a small padding. A blank or degenerate
// region yields an empty string, not an error.
func (a *Adapter) Cell(ctx context.Context, img image.Image, rect image.Rectangle) (string, error) {
	if img == nil {
		return "", nil
	}
	padded := rect.Inset(-cellPadding).Intersect(img.Bounds())
	if padded.Empty() {
		return "", nil
	}
	crop := imaging.Crop(img, padded)
	raw, err := a.Text(ctx, crop, ModeTable)
	return strings.TrimSpace(raw.Text), err
}
