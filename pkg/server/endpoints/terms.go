package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/glossary"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

// TermView is a glossary term with its rendered definition.
type TermView struct {
	model.RegulatoryTerm
	DefinitionHTML string `json:"definition_html"`
}

func RegisterTermsEndpoints(s *server.Server) {
	lggr := s.Logger.Named("terms")

	s.API.HandleFunc("/terms", handleListTerms(s.TermsStore, lggr)).Methods("GET")
	s.API.HandleFunc("/terms/{id:[0-9]+}", handleGetTerm(s.TermsStore, lggr)).Methods("GET")
}

func handleListTerms(terms store.TermsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := terms.ListTerms(r.Context(), r.URL.Query().Get("search"), pageFromQuery(r))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetTerm(terms store.TermsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		termID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		term, err := terms.GetTerm(r.Context(), termID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		html, err := glossary.RenderHTML(term.Definition)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, TermView{RegulatoryTerm: *term, DefinitionHTML: html})
	}
}
