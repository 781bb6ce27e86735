package dbexport

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return gormDB, mock
}

func TestExport(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`SET TRANSACTION ISOLATION LEVEL REPEATABLE READ, READ ONLY`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY id`).WillReturnRows(
		sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("email").OfType("TEXT", ""),
		).AddRow(int64(1), "admin@example.com").AddRow(int64(2), "officer@example.com"))
	mock.ExpectQuery(`SELECT \* FROM "api_keys" ORDER BY id`).WillReturnRows(
		sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("key_ciphertext").OfType("BYTEA", []byte{}),
		).AddRow(int64(3), []byte{0x47, 0x01, 0xff}))
	mock.ExpectCommit()

	var buf bytes.Buffer
	archive, err := Export(context.Background(), db, &buf, Options{Tables: []string{"api_keys", "users"}})

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"users": 2, "api_keys": 1}, archive.Counts())
	assert.NotEmpty(t, archive.ID)

	decoded, err := Decode(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Version, decoded.Version)
	assert.Equal(t, `\x4701ff`, decoded.Tables["api_keys"][0]["key_ciphertext"])
	assert.Equal(t, "officer@example.com", decoded.Tables["users"][1]["email"])
}

func TestExport_UnknownTable(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := Export(context.Background(), db, &bytes.Buffer{}, Options{Tables: []string{"users", "secrets"}})

	assert.EqualError(t, err, "unknown tables: secrets")
}

func TestExportValue(t *testing.T) {
	assert.Equal(t, `\x0a0b`, exportValue("BYTEA", []byte{0x0a, 0x0b}))
	assert.Equal(t, map[string]any{"vendor": "acme"}, exportValue("JSONB", []byte(`{"vendor":"acme"}`)))
	assert.Equal(t, "plain", exportValue("TEXT", []byte("plain")))
	assert.Equal(t, int64(4), exportValue("INT8", int64(4)))
	assert.Nil(t, exportValue("TEXT", nil))
}

const archiveJSON = `{
  "version": 1,
  "id": "0f8b8e1c-0000-4000-8000-000000000001",
  "exported_at": "2025-01-01T00:00:00Z",
  "tables": {
    "users": [{"id": 1, "email": "admin@example.com", "is_active": true}],
    "regulatory_terms": [{"id": 2, "term": "Provider"}]
  }
}`

func TestImport(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE TABLE "regulatory_terms", "users" RESTART IDENTITY`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "users" \("email","id","is_active"\) VALUES \(\$1,\$2,\$3\) ON CONFLICT DO NOTHING`).
		WithArgs("admin@example.com", int64(1), true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('users', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "regulatory_terms" \("id","term"\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('regulatory_terms', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	archive, inserted, err := Import(context.Background(), db, strings.NewReader(archiveJSON), Options{Truncate: true})

	require.NoError(t, err)
	assert.Equal(t, "0f8b8e1c-0000-4000-8000-000000000001", archive.ID)
	assert.Equal(t, map[string]int{"users": 1, "regulatory_terms": 0}, inserted)
}

func TestImport_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, _, err := Import(context.Background(), db, strings.NewReader(archiveJSON), Options{})

	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "failed to import users")
}

func TestDecode(t *testing.T) {
	t.Run("yaml is detected", func(t *testing.T) {
		src := "version: 1\nid: abc\ntables:\n  users:\n    - id: 1\n      email: admin@example.com\n"

		archive, err := Decode(strings.NewReader(src), "")

		require.NoError(t, err)
		assert.Equal(t, 1, archive.Counts()["users"])
		assert.Equal(t, 1, archive.Tables["users"][0]["id"])
	})

	tests := []struct {
		name string
		src  string
		err  string
	}{
		{"newer version", `{"version": 2, "tables": {}}`, "archive version 2 is newer than the supported version 1"},
		{"no version", `{"tables": {}}`, "not a database archive: missing version"},
		{"unknown table", `{"version": 1, "tables": {"users": [], "policies": []}}`, "unknown tables: policies"},
		{"garbage", `{"version":`, "invalid JSON archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), "")
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestImportValue(t *testing.T) {
	v, err := importValue(json.Number("12"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	v, err = importValue(json.Number("87.5"))
	require.NoError(t, err)
	assert.Equal(t, 87.5, v)

	v, err = importValue(map[string]any{"vendor": "acme"})
	require.NoError(t, err)
	assert.Equal(t, `{"vendor":"acme"}`, v)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}
