package embeddings

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream"
)

// DefaultPrimaryTimeout bounds a primary embedding attempt when no
// timeout is configured.
const DefaultPrimaryTimeout = 10 * time.Second

// Fallback chains a primary (external) embedder with a local secondary.
//
// Any primary failure — network error, auth error, rate limit, malformed
// response, timeout — falls back to the secondary for that single call.
// The failure is recorded as a degraded-mode event, never surfaced as an
// error. There is no sticky demotion: the next call re-attempts the
// primary, unless the external provider has been disabled via
// SetDisableExternal.
type Fallback struct {
	primary   Embedder
	secondary Embedder

	providerName string
	model        string
	timeout      time.Duration

	disableExternal atomic.Bool

	events eventstream.Publisher
	logger *slog.Logger
}

// FallbackConfig holds configuration for the fallback chain.
type FallbackConfig struct {
	// Primary is the external embedder. May be nil when no credentials
	// are configured, in which case every call uses Secondary.
	Primary Embedder

	// Secondary is the local embedder serving degraded calls. Required;
	// it must never fail for non-empty input.
	Secondary Embedder

	// ProviderName and Model label degraded-mode events.
	ProviderName string
	Model        string

	// Timeout bounds each primary attempt. Defaults to
	// DefaultPrimaryTimeout if zero.
	Timeout time.Duration

	// DisableExternal starts the chain with the primary switched off.
	DisableExternal bool

	// Events receives degraded-mode events. Required (use the nop
	// publisher to discard).
	Events eventstream.Publisher

	Logger *slog.Logger
}

// NewFallback creates a fallback chain. Primary and secondary must agree
// on dimensionality so ranking never sees mixed vectors.
func NewFallback(cfg FallbackConfig) (*Fallback, error) {
	if cfg.Secondary == nil {
		return nil, fmt.Errorf("secondary embedder is required")
	}
	if cfg.Events == nil {
		return nil, fmt.Errorf("event publisher is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if cfg.Primary != nil && cfg.Primary.Dimensions() != cfg.Secondary.Dimensions() {
		return nil, fmt.Errorf("primary dimensions %d do not match secondary dimensions %d",
			cfg.Primary.Dimensions(), cfg.Secondary.Dimensions())
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultPrimaryTimeout
	}

	f := &Fallback{
		primary:      cfg.Primary,
		secondary:    cfg.Secondary,
		providerName: cfg.ProviderName,
		model:        cfg.Model,
		timeout:      timeout,
		events:       cfg.Events,
		logger:       cfg.Logger,
	}
	f.disableExternal.Store(cfg.DisableExternal)

	return f, nil
}

// Embed attempts the primary embedder under a bounded timeout and falls
// back to the secondary on any failure.
func (f *Fallback) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.primary == nil || f.disableExternal.Load() {
		return f.secondary.Embed(ctx, text)
	}

	primaryCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	vec, err := f.primary.Embed(primaryCtx, text)
	if err == nil {
		return vec, nil
	}

	f.logger.Warn("external embedding failed, serving via local fallback",
		"provider", f.providerName,
		"model", f.model,
		"error", err,
	)

	event := eventstream.NewEmbeddingDegradedEvent(
		f.providerName,
		f.model,
		err.Error(),
		utf8.RuneCountInString(text),
	)
	if pubErr := f.events.PublishDegraded(ctx, event); pubErr != nil {
		f.logger.Warn("failed to publish degraded event",
			"event_id", event.EventID,
			"error", pubErr,
		)
	}

	return f.secondary.Embed(ctx, text)
}

// Dimensions returns the chain's vector dimensionality.
func (f *Fallback) Dimensions() int {
	return f.secondary.Dimensions()
}

// SetDisableExternal switches the primary embedder off (true) or back on
// (false). Safe for concurrent use; the serve command calls this from the
// config watcher.
func (f *Fallback) SetDisableExternal(disable bool) {
	f.disableExternal.Store(disable)
}

// Close closes both embedders, reporting the first error.
func (f *Fallback) Close() error {
	var firstErr error
	if f.primary != nil {
		if err := f.primary.Close(); err != nil {
			firstErr = err
		}
	}
	if err := f.secondary.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

var _ Embedder = (*Fallback)(nil)
