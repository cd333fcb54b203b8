package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cmdrx/cmdrx/config"
)

// anthropicClient speaks Anthropic's messages protocol: a dedicated system
// prompt field and content-block replies, normalized onto the same canonical
// response shape as the OpenAI-compatible path.
type anthropicClient struct {
	client anthropic.Client
	model  string
}

func newAnthropicClient(cfg config.Config, creds map[string]string) *anthropicClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(creds[config.AuthAPIKey]),
		option.WithHTTPClient(&http.Client{Timeout: time.Duration(timeout) * time.Second}),
	}
	// The SDK carries its own endpoint and version prefix; only point it
	// elsewhere when the configured base URL is not the stock one.
	if cfg.BaseURL != "" && cfg.BaseURL != config.PredefinedProviders[config.ProviderAnthropic].BaseURL {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicClient{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *anthropicClient) analyze(ctx context.Context, prompt string) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxOutputTokens,
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, convertAnthropicError(err)
	}

	// An empty content list is a valid (empty) reply, not an error.
	var content string
	for _, blockUnion := range message.Content {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			content = block.Text
			break
		}
	}

	var usage *Usage
	if u := message.Usage; u.InputTokens != 0 || u.OutputTokens != 0 {
		usage = &Usage{
			PromptTokens:     int(u.InputTokens),
			CompletionTokens: int(u.OutputTokens),
			TotalTokens:      int(u.InputTokens + u.OutputTokens),
		}
	}

	return &Response{
		Content: content,
		Model:   c.model,
		Usage:   usage,
	}, nil
}

// convertAnthropicError maps anthropic-sdk-go errors onto the uniform Error kind.
func convertAnthropicError(err error) error {
	if err == nil {
		return nil
	}

	if isTimeout(err) {
		return &Error{
			Type:        ErrorTypeTimeout,
			Message:     "request timed out",
			Retryable:   true,
			ProviderErr: err,
		}
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return &Error{
				Type:        ErrorTypeRateLimit,
				Message:     "rate limited",
				Retryable:   true,
				StatusCode:  apiErr.StatusCode,
				ProviderErr: err,
			}
		case http.StatusBadRequest:
			return &Error{
				Type:        ErrorTypeInvalidRequest,
				Message:     "invalid request",
				StatusCode:  apiErr.StatusCode,
				ProviderErr: err,
			}
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable,
			529: // Anthropic's overloaded_error status
			return &Error{
				Type:        ErrorTypeProvider,
				Message:     fmt.Sprintf("server error (status %d)", apiErr.StatusCode),
				Retryable:   true,
				StatusCode:  apiErr.StatusCode,
				ProviderErr: err,
			}
		default:
			return &Error{
				Type:        ErrorTypeProvider,
				Message:     fmt.Sprintf("API error (status %d)", apiErr.StatusCode),
				StatusCode:  apiErr.StatusCode,
				ProviderErr: err,
			}
		}
	}

	return &Error{
		Type:        ErrorTypeNetwork,
		Message:     "connection failed",
		Retryable:   true,
		ProviderErr: err,
	}
}
