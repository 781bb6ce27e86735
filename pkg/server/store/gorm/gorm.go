package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

const uniqueViolation = "23505"

// withCtx binds ctx to db while keeping the cipher of the handle's own
// context.
func withCtx(db *gorm.DB, ctx context.Context) *gorm.DB {
	if c, ok := model.CipherFrom(db.Statement.Context); ok {
		ctx = model.WithCipher(ctx, c)
	}
	return db.WithContext(ctx)
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrConflict, pqErr.Constraint)
	}
	return err
}

func paginate(p store.Page) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset)
	}
}

// first loads the row with id into dest.
func first(db *gorm.DB, ctx context.Context, dest interface{}, id uint) error {
	return translate(withCtx(db, ctx).First(dest, id).Error)
}

// deleteByID deletes the row with id, reporting ErrNotFound when nothing matched.
func deleteByID(db *gorm.DB, ctx context.Context, value interface{}, id uint) error {
	tx := withCtx(db, ctx).Delete(value, id)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
