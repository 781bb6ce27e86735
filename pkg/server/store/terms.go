package store

import (
	"context"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// TermsStore abstracts the regulatory glossary
type TermsStore interface {
	// ListTerms returns terms ordered alphabetically, optionally filtered by
	// a case-insensitive search over term and definition.
	ListTerms(ctx context.Context, search string, page Page) ([]model.RegulatoryTerm, error)
	GetTerm(ctx context.Context, id uint) (*model.RegulatoryTerm, error)
	// UpsertTerms inserts terms, updating existing ones matched by term.
	UpsertTerms(ctx context.Context, terms []model.RegulatoryTerm) (int, error)
}
