package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockDB wraps sqlmock for testing GORM stores
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a GORM handle backed by sqlmock. Expectations are
// verified when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return &MockDB{DB: db, Mock: mock, GormDB: gormDB}
}

// ExpectInsert expects a transactional INSERT returning id.
func (m *MockDB) ExpectInsert(table string, id int64) {
	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "` + table + `"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	m.Mock.ExpectCommit()
}

// ExpectInsertError expects a transactional INSERT that fails with err.
func (m *MockDB) ExpectInsertError(table string, err error) {
	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "` + table + `"`).WillReturnError(err)
	m.Mock.ExpectRollback()
}

// ExpectNotFound expects a SELECT on table returning no rows.
func (m *MockDB) ExpectNotFound(table string) {
	m.Mock.ExpectQuery(`SELECT .* FROM "` + table + `"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}
