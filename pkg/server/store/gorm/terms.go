package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.TermsStore = (*TermsStore)(nil)

// TermsStore implements store.TermsStore using GORM
type TermsStore struct {
	db *gorm.DB
}

// NewTermsStore creates a new TermsStore
func NewTermsStore(db *gorm.DB) *TermsStore {
	return &TermsStore{db: db}
}

func (s *TermsStore) ListTerms(ctx context.Context, search string, page store.Page) ([]model.RegulatoryTerm, error) {
	query := withCtx(s.db, ctx).Model(&model.RegulatoryTerm{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("term ILIKE ? OR definition ILIKE ?", pattern, pattern)
	}

	var terms []model.RegulatoryTerm
	if err := query.Scopes(paginate(page)).Order("lower(term)").Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}

func (s *TermsStore) GetTerm(ctx context.Context, id uint) (*model.RegulatoryTerm, error) {
	var term model.RegulatoryTerm
	if err := first(s.db, ctx, &term, id); err != nil {
		return nil, err
	}
	return &term, nil
}

func (s *TermsStore) UpsertTerms(ctx context.Context, terms []model.RegulatoryTerm) (int, error) {
	if len(terms) == 0 {
		return 0, nil
	}
	tx := withCtx(s.db, ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "term"}},
		DoUpdates: clause.AssignmentColumns([]string{"definition", "article", "category", "updated_at"}),
	}).Create(&terms)
	if tx.Error != nil {
		return 0, translate(tx.Error)
	}
	return int(tx.RowsAffected), nil
}
