// Package analyzer orchestrates one diagnosis: it composes the prompt,
// dispatches it to the configured provider, and parses the reply into a
// typed result. It never renders anything itself; presentation belongs to
// the caller.
package analyzer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cmdrx/cmdrx/analysis"
	"github.com/cmdrx/cmdrx/executor"
	"github.com/cmdrx/cmdrx/llm"
	"github.com/rs/zerolog"
)

// Analyzer runs command-output diagnoses against one provider.
type Analyzer struct {
	provider   *llm.Provider
	maxRetries int
	logger     zerolog.Logger
}

// New creates an Analyzer. maxRetries is the number of additional attempts
// made for retryable provider errors; zero keeps the provider's
// single-attempt behavior untouched.
func New(provider *llm.Provider, maxRetries int, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		provider:   provider,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Analyze diagnoses one captured command output. It returns both the
// canonical provider response (for logging) and the parsed result (for
// rendering and fix-script generation).
func (a *Analyzer) Analyze(ctx context.Context, result *executor.Result) (*llm.Response, analysis.Result, error) {
	prompt := buildPrompt(result, collectSystemInfo())

	a.logger.Debug().
		Str("command", result.Command).
		Int("prompt_chars", len(prompt)).
		Msg("sending analysis request")

	resp, err := a.send(ctx, prompt)
	if err != nil {
		return nil, analysis.Result{}, err
	}

	return resp, analysis.Parse(resp.Content), nil
}

// send wraps the single-attempt dispatch with an optional retry policy.
// Only errors the provider layer marked retryable are retried.
func (a *Analyzer) send(ctx context.Context, prompt string) (*llm.Response, error) {
	if a.maxRetries <= 0 {
		return a.provider.Analyze(ctx, prompt)
	}

	var resp *llm.Response
	operation := func() error {
		r, err := a.provider.Analyze(ctx, prompt)
		if err != nil {
			if llm.IsRetryableError(err) {
				a.logger.Warn().Err(err).Msg("retryable analysis failure")
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(a.maxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}
