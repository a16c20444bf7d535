// Package livefetch retrieves document content from external sources at
// request time through an ordered chain of independent strategies: scripted
// browser automation, a parameterized direct URL, and a plain GET with a
// warmed session. The first strategy whose output looks like a real document
// page wins; exhausting the chain is reported as an availability condition,
// never a fatal error.
package livefetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kodhane/mevra/internal/model"
)

// Result is the raw output of one successful live fetch.
type Result struct {
	Lines     []string // normalized text lines, extractor-ready
	RawText   string   // the same content joined, for the quality gate
	SourceURL string
	Strategy  string
}

// Fetcher is one live-fetch strategy. Implementations must release every
// resource they open (browser session, HTTP client) on all exit paths,
// including cancellation; this is a contract, not an optimization.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, query string) (*Result, error)
}

// Chain runs strategies sequentially in fixed priority order, each under its
// own timeout. Sequential on purpose: racing them would hammer the upstream
// source past its rate limits.
type Chain struct {
	fetchers        []Fetcher
	strategyTimeout time.Duration
	logger          *slog.Logger
}

// NewChain creates a strategy chain. Fetchers are attempted in the order given.
func NewChain(fetchers []Fetcher, strategyTimeout time.Duration, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	if strategyTimeout <= 0 {
		strategyTimeout = 8 * time.Second
	}
	return &Chain{
		fetchers:        fetchers,
		strategyTimeout: strategyTimeout,
		logger:          logger,
	}
}

// FetchLive walks the chain until a strategy produces content that passes the
// sanity check. Every attempt is recorded. Returns ErrUpstreamUnavailable
// (wrapped) when all strategies are exhausted.
func (c *Chain) FetchLive(ctx context.Context, query string) (*Result, []model.StrategyAttempt, error) {
	attempts := make([]model.StrategyAttempt, 0, len(c.fetchers))

	for _, fetcher := range c.fetchers {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		start := time.Now()
		result, err := c.tryStrategy(ctx, fetcher, query)
		latency := time.Since(start).Milliseconds()

		attempt := model.StrategyAttempt{Name: fetcher.Name(), LatencyMs: latency}
		switch {
		case err == nil && looksLikeDocument(result.RawText):
			attempt.Outcome = model.OutcomeOK
			attempts = append(attempts, attempt)
			result.Strategy = fetcher.Name()
			return result, attempts, nil
		case err == nil:
			attempt.Outcome = model.OutcomeRejected
			c.logger.Debug("livefetch: strategy output failed sanity check", "strategy", fetcher.Name())
		case errors.Is(err, context.DeadlineExceeded):
			attempt.Outcome = model.OutcomeTimeout
			c.logger.Debug("livefetch: strategy timed out", "strategy", fetcher.Name())
		default:
			attempt.Outcome = model.OutcomeError
			c.logger.Debug("livefetch: strategy failed", "strategy", fetcher.Name(), "error", err)
		}
		attempts = append(attempts, attempt)
	}

	return nil, attempts, fmt.Errorf("all %d strategies exhausted: %w", len(c.fetchers), model.ErrUpstreamUnavailable)
}

// tryStrategy scopes one attempt under the per-strategy timeout and converts
// panics from misbehaving drivers into plain errors so the chain can proceed.
func (c *Chain) tryStrategy(ctx context.Context, fetcher Fetcher, query string) (result *Result, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.strategyTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("strategy %s panicked: %v", fetcher.Name(), r)
		}
	}()

	result, err = fetcher.Fetch(attemptCtx, query)
	if err != nil {
		// Prefer the timeout classification when the attempt deadline hit.
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	return result, nil
}
