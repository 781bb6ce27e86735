package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// Client talks to one external provider with a given key.
type Client interface {
	Provider() model.Provider
	// Ask answers a compliance question.
	Ask(ctx context.Context, key Key, question string) (Answer, error)
	// Check makes the cheapest authenticated call the provider offers.
	Check(ctx context.Context, key Key) error
}

// Answer is the result of a question put to the provider chain. The zero
// value is the empty result returned when every provider failed.
type Answer struct {
	Provider model.Provider `json:"provider,omitempty"`
	Text     string         `json:"answer"`
	Sources  []SearchResult `json:"sources,omitempty"`
}

// Empty reports whether no provider produced an answer.
func (a Answer) Empty() bool {
	return a.Text == "" && len(a.Sources) == 0
}

// SystemPrompt frames questions sent to the language models.
const SystemPrompt = "You are a compliance assistant for the EU Artificial Intelligence Act " +
	"(Regulation (EU) 2024/1689). Answer precisely, cite the relevant articles or annexes, " +
	"and say so when a question falls outside the regulation."

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// errorMessage extracts the provider's error text. OpenAI, DeepSeek and the
// Google APIs all use {"error": {"message": ...}}; some proxies send a string.
func errorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		var eb errorBody
		if err := json.Unmarshal(env.Error, &eb); err == nil && eb.Message != "" {
			return eb.Message
		}
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
			return s
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// doJSON sends req and decodes a 2xx JSON body into out. Other statuses
// become *apperror.AppError values carrying the provider and status.
func doJSON(httpClient *http.Client, provider model.Provider, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the request URL, which may carry the key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return apperror.External(string(provider), 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperror.External(string(provider), resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		if msg == "" {
			msg = resp.Status
		}
		return apperror.External(string(provider), resp.StatusCode, errors.New(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperror.External(string(provider), resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// DefaultClients returns one client per provider sharing httpClient.
func DefaultClients(httpClient *http.Client, searchEngineID string) []Client {
	return []Client{
		NewDeepSeekClient(httpClient),
		NewOpenAIClient(httpClient),
		NewGeminiClient(httpClient),
		NewGoogleSearchClient(httpClient, searchEngineID),
	}
}
