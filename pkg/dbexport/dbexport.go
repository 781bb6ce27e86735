// Package dbexport writes and reads logical database archives: every
// table's rows as plain values, in JSON or YAML.
//
// Rows are copied as stored. Provider keys therefore stay sealed with the
// data key, and an archive can only be used with the same AIACT_DATA_KEY.
package dbexport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Version is the archive format version written by Export.
const Version = 1

// Tables lists the exportable tables in dependency order: a table only
// references tables before it.
var Tables = []string{
	"users",
	"ai_systems",
	"risk_assessments",
	"training_modules",
	"training_progress",
	"approval_items",
	"approval_assignments",
	"approval_history",
	"activities",
	"api_keys",
	"regulatory_terms",
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// Archive is the exported content of the database.
type Archive struct {
	Version    int                         `json:"version" yaml:"version"`
	ID         string                      `json:"id" yaml:"id"`
	ExportedAt time.Time                   `json:"exported_at" yaml:"exported_at"`
	Tables     map[string][]map[string]any `json:"tables" yaml:"tables"`
}

// Counts returns the number of rows per table.
func (a *Archive) Counts() map[string]int {
	out := make(map[string]int, len(a.Tables))
	for name, rows := range a.Tables {
		out[name] = len(rows)
	}
	return out
}

type Options struct {
	// Format of the archive. Import detects it when empty.
	Format Format
	// Tables restricts an export; empty means all.
	Tables []string
	// Truncate empties the archive's tables before an import.
	Truncate bool
}

// Export reads the selected tables and writes them to w as an archive.
func Export(ctx context.Context, db *gorm.DB, w io.Writer, opts Options) (*Archive, error) {
	tables, err := selectTables(opts.Tables)
	if err != nil {
		return nil, err
	}

	archive := &Archive{
		Version:    Version,
		ID:         uuid.NewString(),
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Tables:     make(map[string][]map[string]any, len(tables)),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL REPEATABLE READ, READ ONLY").Error; err != nil {
			return err
		}
		for _, name := range tables {
			rows, err := readTable(tx, name)
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", name, err)
			}
			archive.Tables[name] = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := encode(w, opts.Format, archive); err != nil {
		return nil, err
	}
	return archive, nil
}

func readTable(tx *gorm.DB, name string) ([]map[string]any, error) {
	rows, err := tx.Table(name).Order("id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col.Name()] = exportValue(col.DatabaseTypeName(), values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// exportValue turns a scanned column into a value that survives the
// text encodings. bytea becomes Postgres hex input, json becomes the
// decoded document.
func exportValue(dbType string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	switch strings.ToUpper(dbType) {
	case "BYTEA":
		return `\x` + hex.EncodeToString(b)
	case "JSON", "JSONB":
		var doc any
		if err := json.Unmarshal(b, &doc); err == nil {
			return doc
		}
	}
	return string(b)
}

func encode(w io.Writer, format Format, archive *Archive) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(archive); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(archive); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

// Decode reads an archive from r and checks its version and tables.
func Decode(r io.Reader, format Format) (*Archive, error) {
	br := bufio.NewReader(r)
	if format == "" {
		format = sniff(br)
	}

	var archive Archive
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(br)
		dec.UseNumber()
		if err := dec.Decode(&archive); err != nil {
			return nil, fmt.Errorf("invalid JSON archive: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(br).Decode(&archive); err != nil {
			return nil, fmt.Errorf("invalid YAML archive: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	switch {
	case archive.Version < 1:
		return nil, fmt.Errorf("not a database archive: missing version")
	case archive.Version > Version:
		return nil, fmt.Errorf("archive version %d is newer than the supported version %d", archive.Version, Version)
	}

	names := make([]string, 0, len(archive.Tables))
	for name := range archive.Tables {
		names = append(names, name)
	}
	if _, err := selectTables(names); err != nil {
		return nil, err
	}
	return &archive, nil
}

func sniff(br *bufio.Reader) Format {
	peek, _ := br.Peek(512)
	if trimmed := bytes.TrimSpace(peek); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Import loads an archive into the database in one transaction and
// returns the number of rows inserted per table. Rows whose key already
// exists are skipped.
func Import(ctx context.Context, db *gorm.DB, r io.Reader, opts Options) (*Archive, map[string]int, error) {
	archive, err := Decode(r, opts.Format)
	if err != nil {
		return nil, nil, err
	}

	var tables []string
	for _, name := range Tables {
		if _, ok := archive.Tables[name]; ok {
			tables = append(tables, name)
		}
	}

	inserted := make(map[string]int, len(tables))
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Truncate && len(tables) > 0 {
			quoted := make([]string, len(tables))
			for i, name := range tables {
				quoted[len(tables)-1-i] = tx.Statement.Quote(name)
			}
			if err := tx.Exec("TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY").Error; err != nil {
				return fmt.Errorf("failed to truncate: %w", err)
			}
		}

		for _, name := range tables {
			n, err := insertRows(tx, name, archive.Tables[name])
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", name, err)
			}
			inserted[name] = n
			if err := resetSequence(tx, name); err != nil {
				return fmt.Errorf("failed to reset id sequence of %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return archive, nil, err
	}
	return archive, inserted, nil
}

func insertRows(tx *gorm.DB, table string, rows []map[string]any) (int, error) {
	total := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		quoted := make([]string, len(cols))
		values := make([]any, len(cols))
		for i, col := range cols {
			quoted[i] = tx.Statement.Quote(col)
			v, err := importValue(row[col])
			if err != nil {
				return total, fmt.Errorf("column %s: %w", col, err)
			}
			values[i] = v
		}

		sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
			tx.Statement.Quote(table),
			strings.Join(quoted, ","),
			strings.TrimSuffix(strings.Repeat("?,", len(cols)), ","))
		res := tx.Exec(sql, values...)
		if res.Error != nil {
			return total, res.Error
		}
		total += int(res.RowsAffected)
	}
	return total, nil
}

// importValue converts a decoded archive value into a query argument.
func importValue(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

func resetSequence(tx *gorm.DB, table string) error {
	q := tx.Statement.Quote(table)
	return tx.Exec(fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1), (SELECT MAX(id) FROM %s) IS NOT NULL)",
		table, q, q)).Error
}

func selectTables(names []string) ([]string, error) {
	if len(names) == 0 {
		return Tables, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[strings.TrimSpace(name)] = true
	}

	var out []string
	for _, name := range Tables {
		if want[name] {
			out = append(out, name)
			delete(want, name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for name := range want {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown tables: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
