package endpoints

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
)

const defaultSearchResults = 5

type askRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

// SearchResponse wraps search results; Results is empty, never null, when
// the search failed.
type SearchResponse struct {
	Query   string                   `json:"query"`
	Results []providers.SearchResult `json:"results"`
}

func RegisterAssistantEndpoints(s *server.Server) {
	lggr := s.Logger.Named("assistant")

	s.API.HandleFunc("/assistant/ask", handleAsk(s.Chain, lggr)).Methods("POST")
	s.API.HandleFunc("/search", handleSearch(s.Searcher)).Methods("GET")
}

func handleAsk(chain func() *providers.Chain, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		answer, err := chain().Ask(r.Context(), req.Question)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, answer)
	}
}

func handleSearch(searcher *providers.Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			respondWithError(w, http.StatusBadRequest, "q is required")
			return
		}
		num := defaultSearchResults
		if raw := r.URL.Query().Get("num"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > providers.MaxSearchResults {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("num must be between 1 and %d", providers.MaxSearchResults))
				return
			}
			num = n
		}

		results := []providers.SearchResult{}
		if searcher != nil {
			results = searcher.Search(r.Context(), query, num)
		}
		respondWithJSON(w, http.StatusOK, SearchResponse{Query: query, Results: results})
	}
}
