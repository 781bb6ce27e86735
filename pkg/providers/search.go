package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

const DefaultGoogleSearchURL = "https://www.googleapis.com/customsearch/v1"

// MaxSearchResults is the page size limit of the Custom Search API.
const MaxSearchResults = 10

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// GoogleSearchClient calls the Custom Search JSON API.
type GoogleSearchClient struct {
	BaseURL    string
	EngineID   string
	HTTPClient *http.Client
}

var _ Client = (*GoogleSearchClient)(nil)

func NewGoogleSearchClient(httpClient *http.Client, engineID string) *GoogleSearchClient {
	return &GoogleSearchClient{BaseURL: DefaultGoogleSearchURL, EngineID: engineID, HTTPClient: httpClient}
}

func (c *GoogleSearchClient) Provider() model.Provider {
	return model.ProviderGoogleSearch
}

type searchResponse struct {
	Items []SearchResult `json:"items"`
}

var errNoEngine = apperror.New(apperror.Validation, "GOOGLE_SEARCH_ENGINE_ID is not configured")

// Configured reports whether a search engine id is set.
func (c *GoogleSearchClient) Configured() bool {
	return c.EngineID != ""
}

// Query runs one search with key.
func (c *GoogleSearchClient) Query(ctx context.Context, key Key, query string, num int) ([]SearchResult, error) {
	if !c.Configured() {
		return nil, errNoEngine
	}
	if num <= 0 || num > MaxSearchResults {
		num = MaxSearchResults
	}

	params := url.Values{}
	params.Set("key", key.Value)
	params.Set("cx", c.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))

	req, err := newJSONRequest(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := doJSON(c.HTTPClient, model.ProviderGoogleSearch, req, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []SearchResult{}
	}
	return resp.Items, nil
}

// Ask answers with the snippets of the top results. It is the last resort
// of the chain when no language model is reachable.
func (c *GoogleSearchClient) Ask(ctx context.Context, key Key, question string) (Answer, error) {
	results, err := c.Query(ctx, key, "EU AI Act "+question, 5)
	if err != nil {
		return Answer{}, err
	}
	if len(results) == 0 {
		return Answer{}, apperror.External(string(model.ProviderGoogleSearch), http.StatusOK, errors.New("no results"))
	}

	var sb strings.Builder
	sb.WriteString("No language model was available. Relevant sources:\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, r.Title, strings.TrimSpace(r.Snippet))
	}
	return Answer{Provider: model.ProviderGoogleSearch, Text: strings.TrimSpace(sb.String()), Sources: results}, nil
}

func (c *GoogleSearchClient) Check(ctx context.Context, key Key) error {
	_, err := c.Query(ctx, key, "EU AI Act", 1)
	return err
}

// Searcher runs searches through the key manager and never fails: on
// total failure it logs and returns an empty list.
type Searcher struct {
	client *GoogleSearchClient
	keys   *KeyManager
	lggr   logger.Logger
}

func NewSearcher(client *GoogleSearchClient, keys *KeyManager, lggr logger.Logger) *Searcher {
	return &Searcher{client: client, keys: keys, lggr: lggr.Named("Searcher")}
}

func (s *Searcher) Search(ctx context.Context, query string, num int) []SearchResult {
	if !s.client.Configured() {
		s.lggr.Warnw("Search skipped, returning empty result", "query", query, "err", errNoEngine)
		return []SearchResult{}
	}
	results, err := ExecuteWithRetry(ctx, s.keys, model.ProviderGoogleSearch, func(ctx context.Context, key Key) ([]SearchResult, error) {
		return s.client.Query(ctx, key, query, num)
	})
	if err != nil {
		appErr := &apperror.AppError{
			Type:     apperror.ExternalService,
			Message:  "google search failed",
			Provider: string(model.ProviderGoogleSearch),
			Err:      err,
		}
		s.lggr.Errorw("Search failed, returning empty result", "query", query, "type", string(appErr.Type), "err", appErr)
		return []SearchResult{}
	}
	return results
}
