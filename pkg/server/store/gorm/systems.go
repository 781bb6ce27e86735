package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.SystemsStore = (*SystemsStore)(nil)

// SystemsStore implements store.SystemsStore using GORM
type SystemsStore struct {
	db *gorm.DB
}

// NewSystemsStore creates a new SystemsStore
func NewSystemsStore(db *gorm.DB) *SystemsStore {
	return &SystemsStore{db: db}
}

func (s *SystemsStore) ListSystems(ctx context.Context, filter store.SystemFilter) ([]model.AISystem, error) {
	query := withCtx(s.db, ctx).Model(&model.AISystem{})

	switch {
	case filter.Unclassified:
		query = query.Where("risk_tier IS NULL")
	case filter.RiskTier != nil:
		query = query.Where("risk_tier = ?", *filter.RiskTier)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR vendor ILIKE ?", pattern, pattern, pattern)
	}

	var systems []model.AISystem
	tx := query.Scopes(paginate(filter.Page)).Order("name").Find(&systems)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return systems, nil
}

func (s *SystemsStore) GetSystem(ctx context.Context, id uint) (*model.AISystem, error) {
	var system model.AISystem
	if err := first(s.db, ctx, &system, id); err != nil {
		return nil, err
	}
	return &system, nil
}

func (s *SystemsStore) CreateSystem(ctx context.Context, system *model.AISystem) error {
	return translate(withCtx(s.db, ctx).Create(system).Error)
}

func (s *SystemsStore) UpdateSystem(ctx context.Context, system *model.AISystem) error {
	tx := withCtx(s.db, ctx).Model(&model.AISystem{}).
		Where("id = ?", system.ID).
		Updates(map[string]interface{}{
			"name":        system.Name,
			"description": system.Description,
			"vendor":      system.Vendor,
			"purpose":     system.Purpose,
			"department":  system.Department,
			"use_case":    system.UseCase,
			"owner_id":    system.OwnerID,
			"risk_tier":   system.RiskTier,
			"status":      system.Status,
			"deployed_at": system.DeployedAt,
		})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSystem relies on the risk_assessments foreign key cascading and
// on approval_items.system_id being set to NULL.
func (s *SystemsStore) DeleteSystem(ctx context.Context, id uint) error {
	return deleteByID(s.db, ctx, &model.AISystem{}, id)
}

func (s *SystemsStore) SetRiskTier(ctx context.Context, id uint, tier model.RiskTier) error {
	tx := withCtx(s.db, ctx).Model(&model.AISystem{}).
		Where("id = ?", id).
		Update("risk_tier", tier)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
