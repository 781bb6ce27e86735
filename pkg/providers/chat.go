package providers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

const (
	DefaultDeepSeekURL   = "https://api.deepseek.com"
	DefaultDeepSeekModel = "deepseek-chat"
	DefaultOpenAIURL     = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

// ChatClient speaks the OpenAI chat completions API, which DeepSeek
// implements as well.
type ChatClient struct {
	provider   model.Provider
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

var _ Client = (*ChatClient)(nil)

func NewDeepSeekClient(httpClient *http.Client) *ChatClient {
	return &ChatClient{provider: model.ProviderDeepSeek, BaseURL: DefaultDeepSeekURL, Model: DefaultDeepSeekModel, HTTPClient: httpClient}
}

func NewOpenAIClient(httpClient *http.Client) *ChatClient {
	return &ChatClient{provider: model.ProviderOpenAI, BaseURL: DefaultOpenAIURL, Model: DefaultOpenAIModel, HTTPClient: httpClient}
}

func (c *ChatClient) Provider() model.Provider {
	return c.provider
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *ChatClient) Ask(ctx context.Context, key Key, question string) (Answer, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.url("/chat/completions"), chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return Answer{}, err
	}
	req.Header.Set("Authorization", "Bearer "+key.Value)

	var resp chatResponse
	if err := doJSON(c.HTTPClient, c.provider, req, &resp); err != nil {
		return Answer{}, err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Answer{}, apperror.External(string(c.provider), http.StatusOK, errors.New("empty completion"))
	}
	return Answer{Provider: c.provider, Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

func (c *ChatClient) Check(ctx context.Context, key Key) error {
	req, err := newJSONRequest(ctx, http.MethodGet, c.url("/models"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+key.Value)
	return doJSON(c.HTTPClient, c.provider, req, nil)
}
