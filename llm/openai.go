package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cmdrx/cmdrx/config"
	openai "github.com/sashabaranov/go-openai"
)

// openAICompatibleClient speaks the OpenAI-style chat completion protocol.
// It serves the openai and grok providers (fixed base URLs) and custom
// endpoints (explicit base URL, pluggable auth).
type openAICompatibleClient struct {
	client *openai.Client
	model  string
}

func newOpenAICompatibleClient(cfg config.Config, creds map[string]string) *openAICompatibleClient {
	token := creds[config.AuthAPIKey]
	if token == "" {
		token = creds[config.AuthBearerToken]
	}
	if token == "" {
		// Unauthenticated custom endpoints still get a placeholder; some
		// OpenAI-compatible servers reject requests without an auth header.
		token = "not-needed"
	}

	clientCfg := openai.DefaultConfig(token)

	baseURL := cfg.BaseURL
	if defaults, ok := config.PredefinedProviders[cfg.Provider]; ok {
		baseURL = defaults.BaseURL
	}
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}

	return &openAICompatibleClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (c *openAICompatibleClient) analyze(ctx context.Context, prompt string) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxOutputTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, convertOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewProviderError("no choices in response", nil)
	}

	// A missing usage block decodes as the zero struct; canonical usage
	// stays nil rather than zero-filled.
	var usage *Usage
	if u := resp.Usage; u.PromptTokens != 0 || u.CompletionTokens != 0 || u.TotalTokens != 0 {
		usage = &Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   c.model,
		Usage:   usage,
	}, nil
}

// convertOpenAIError maps go-openai errors onto the uniform Error kind.
func convertOpenAIError(err error) error {
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

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return &Error{
				Type:        ErrorTypeRateLimit,
				Message:     fmt.Sprintf("rate limited: %s", apiErr.Message),
				Retryable:   true,
				StatusCode:  apiErr.HTTPStatusCode,
				ProviderErr: err,
			}
		case http.StatusBadRequest:
			return &Error{
				Type:        ErrorTypeInvalidRequest,
				Message:     fmt.Sprintf("invalid request: %s", apiErr.Message),
				StatusCode:  apiErr.HTTPStatusCode,
				ProviderErr: err,
			}
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return &Error{
				Type:        ErrorTypeProvider,
				Message:     fmt.Sprintf("server error: %s", apiErr.Message),
				Retryable:   true,
				StatusCode:  apiErr.HTTPStatusCode,
				ProviderErr: err,
			}
		default:
			return &Error{
				Type:        ErrorTypeProvider,
				Message:     fmt.Sprintf("API error: %s", apiErr.Message),
				StatusCode:  apiErr.HTTPStatusCode,
				ProviderErr: err,
			}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Type:        ErrorTypeProvider,
			Message:     fmt.Sprintf("request failed with status %d", reqErr.HTTPStatusCode),
			StatusCode:  reqErr.HTTPStatusCode,
			ProviderErr: err,
		}
	}

	return &Error{
		Type:        ErrorTypeNetwork,
		Message:     "connection failed",
		Retryable:   true,
		ProviderErr: err,
	}
}
