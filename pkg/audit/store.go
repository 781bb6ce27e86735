package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Store persists audit lines to the messages table. A nil *Store, or one
// without a connection, silently drops events.
type Store struct {
	db       *sql.DB
	hostname string
	procID   string
}

// Message is one persisted audit line.
type Message struct {
	ID        int64                        `json:"id"`
	Facility  int                          `json:"facility"`
	Severity  Severity                     `json:"severity"`
	Timestamp time.Time                    `json:"timestamp"`
	Hostname  string                       `json:"hostname"`
	AppName   string                       `json:"appname"`
	ProcID    string                       `json:"procid"`
	MsgID     string                       `json:"msgid"`
	SData     map[string]map[string]string `json:"sdata"`
	Text      string                       `json:"message"`
}

// Filter narrows Recent. Zero values do not filter.
type Filter struct {
	MsgID       string
	MaxSeverity *Severity
	Since       time.Time
	Limit       int
}

// NewStore connects to AUDIT_DATABASE_URL. It returns a nil store when the
// variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}
	return OpenStore(dbURL)
}

// OpenStore connects to the database holding the messages table.
func OpenStore(dbURL string) (*Store, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname, procID: strconv.Itoa(os.Getpid())}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes event as it would appear on the RFC5424 stream.
func (s *Store) Save(event Event) error {
	return s.SaveContext(context.Background(), event)
}

func (s *Store) SaveContext(ctx context.Context, event Event) error {
	if s == nil || s.db == nil {
		return nil
	}

	sdata, err := json.Marshal(event.StructuredData())
	if err != nil {
		return fmt.Errorf("audit: encode structured data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		time.Now().UTC(),
		s.hostname,
		AppName,
		s.procID,
		event.MessageID(),
		sdata,
		event.Message(),
	)
	if err != nil {
		return fmt.Errorf("audit: save %s event: %w", event.MessageID(), err)
	}
	return nil
}

// Recent returns the newest messages first. Limit defaults to 100.
func (s *Store) Recent(ctx context.Context, f Filter) ([]Message, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var (
		where []string
		args  []any
	)
	if f.MsgID != "" {
		args = append(args, f.MsgID)
		where = append(where, fmt.Sprintf("msgid = $%d", len(args)))
	}
	if f.MaxSeverity != nil {
		// lower syslog severities are more urgent
		args = append(args, int(*f.MaxSeverity))
		where = append(where, fmt.Sprintf("severity <= $%d", len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since.UTC())
		where = append(where, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	query := `SELECT id, facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message FROM messages`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC, id DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Message
	for rows.Next() {
		var m Message
		var severity int
		var hostname, appname, procid, msgid sql.NullString
		var sdata []byte
		if err := rows.Scan(&m.ID, &m.Facility, &severity, &m.Timestamp, &hostname, &appname, &procid, &msgid, &sdata, &m.Text); err != nil {
			return nil, fmt.Errorf("audit: scan message: %w", err)
		}
		m.Severity = Severity(severity)
		m.Hostname, m.AppName, m.ProcID, m.MsgID = hostname.String, appname.String, procid.String, msgid.String
		if len(sdata) > 0 {
			if err := json.Unmarshal(sdata, &m.SData); err != nil {
				return nil, fmt.Errorf("audit: decode structured data of message %d: %w", m.ID, err)
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}
