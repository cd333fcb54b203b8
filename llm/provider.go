package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cmdrx/cmdrx/config"
	"github.com/rs/zerolog"
)

// Request wire policy shared by both protocols: a system message plus one
// user message, biased toward deterministic, boundable replies.
const (
	systemPrompt = "You are CmdRx, an expert system administrator AI assistant. " +
		"Provide detailed, accurate troubleshooting information."
	temperature     = 0.1
	maxOutputTokens = 2000
)

// family is the wire protocol a provider speaks.
type family int

const (
	familyOpenAI    family = iota // OpenAI-style chat completions
	familyAnthropic               // Anthropic messages API
)

// families is the closed provider table. Adding a provider is one entry here
// plus one client implementation.
var families = map[string]family{
	config.ProviderOpenAI:    familyOpenAI,
	config.ProviderGrok:      familyOpenAI,
	config.ProviderCustom:    familyOpenAI,
	config.ProviderAnthropic: familyAnthropic,
}

// client is the per-backend request builder and normalizer.
type client interface {
	analyze(ctx context.Context, prompt string) (*Response, error)
}

// Provider dispatches analysis prompts to the configured backend. It holds a
// snapshot of the configuration and resolved credentials taken at
// construction time and no other mutable state, so independent Providers can
// be used concurrently.
type Provider struct {
	cfg    config.Config
	client client
	logger zerolog.Logger
}

// NewProvider validates the configuration against the resolved credential
// set and builds the matching backend client. Validation failures and
// unsupported provider identifiers are reported before any network attempt.
func NewProvider(cfg config.Config, creds map[string]string, logger zerolog.Logger) (*Provider, error) {
	if err := config.Validate(cfg, creds); err != nil {
		return nil, err
	}

	fam, ok := families[cfg.Provider]
	if !ok {
		return nil, NewUnsupportedProviderError(cfg.Provider)
	}

	var c client
	switch fam {
	case familyOpenAI:
		c = newOpenAICompatibleClient(cfg, creds)
	case familyAnthropic:
		c = newAnthropicClient(cfg, creds)
	}

	return &Provider{cfg: cfg, client: c, logger: logger}, nil
}

// Analyze sends one fully composed prompt to the backend and returns the
// canonical response. A single attempt is made per call; retry policy
// belongs to the caller. The attached duration is wall-clock latency
// measured around the network call and normalization.
func (p *Provider) Analyze(ctx context.Context, prompt string) (*Response, error) {
	start := time.Now()

	resp, err := p.client.analyze(ctx, prompt)
	if err != nil {
		var llmErr *Error
		if !errors.As(err, &llmErr) {
			// Should not happen; clients wrap everything. Keep the boundary tight anyway.
			llmErr = &Error{Type: ErrorTypeUnknown, Message: "LLM analysis failed", ProviderErr: err}
		}
		p.logger.Debug().
			Str("provider", p.cfg.Provider).
			Str("type", string(llmErr.Type)).
			Err(llmErr).
			Msg("analysis request failed")
		return nil, llmErr
	}

	resp.Duration = time.Since(start)
	resp.Provider = p.cfg.Provider

	event := p.logger.Debug().
		Str("provider", resp.Provider).
		Str("model", resp.Model).
		Dur("duration", resp.Duration)
	if resp.Usage != nil {
		event = event.Int("total_tokens", resp.Usage.TotalTokens)
	}
	event.Msg("analysis request complete")

	return resp, nil
}

// TestConnection sends a trivial prompt and reports whether the backend
// produced any reply.
func (p *Provider) TestConnection(ctx context.Context) bool {
	resp, err := p.Analyze(ctx, "Respond with 'OK' if you can read this test message.")
	return err == nil && resp.Content != ""
}

// Config returns the configuration snapshot the Provider was built with.
func (p *Provider) Config() config.Config {
	return p.cfg
}
