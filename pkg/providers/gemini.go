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
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

var _ Client = (*GeminiClient)(nil)

func NewGeminiClient(httpClient *http.Client) *GeminiClient {
	return &GeminiClient{BaseURL: DefaultGeminiURL, Model: DefaultGeminiModel, HTTPClient: httpClient}
}

func (c *GeminiClient) Provider() model.Provider {
	return model.ProviderGemini
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *GeminiClient) Ask(ctx context.Context, key Key, question string) (Answer, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.url("/models/"+c.Model+":generateContent"), geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: question}}}},
	})
	if err != nil {
		return Answer{}, err
	}
	req.Header.Set("x-goog-api-key", key.Value)

	var resp geminiResponse
	if err := doJSON(c.HTTPClient, model.ProviderGemini, req, &resp); err != nil {
		return Answer{}, err
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Answer{}, apperror.External(string(model.ProviderGemini), http.StatusOK, errors.New("empty candidate"))
	}
	return Answer{Provider: model.ProviderGemini, Text: text}, nil
}

func (c *GeminiClient) Check(ctx context.Context, key Key) error {
	req, err := newJSONRequest(ctx, http.MethodGet, c.url("/models?pageSize=1"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", key.Value)
	return doJSON(c.HTTPClient, model.ProviderGemini, req, nil)
}
