package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		facility int
		severity Severity
		msgid    string
	}{
		{
			name:     "login",
			event:    LoginEvent{Email: "admin@example.com", ClientIP: "10.0.0.1", Success: true},
			facility: FacilityAuthPriv,
			severity: SeverityInfo,
			msgid:    "login",
		},
		{
			name:     "failed system update",
			event:    SystemEvent("update", 2, "Chatbot", "viewer@example.com", "10.0.0.1", false, "forbidden"),
			facility: FacilityLocal0,
			severity: SeverityWarning,
			msgid:    "system",
		},
		{
			name:     "key deactivated",
			event:    APIKeyEvent{Provider: "deepseek", Fingerprint: "ffff", Operation: "deactivated", Success: true},
			facility: FacilityAuth,
			severity: SeverityWarning,
			msgid:    "api-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create sqlmock: %v", err)
			}
			defer db.Close()

			store := NewStoreWithDB(db)

			mock.ExpectExec(`INSERT INTO messages`).
				WithArgs(
					tt.facility,      // facility
					int(tt.severity), // severity
					sqlmock.AnyArg(), // timestamp
					sqlmock.AnyArg(), // hostname
					AppName,          // appname
					sqlmock.AnyArg(), // procid
					tt.msgid,         // msgid
					sqlmock.AnyArg(), // sdata (JSON)
					tt.event.Message(),
				).
				WillReturnResult(sqlmock.NewResult(1, 1))

			if err := store.Save(tt.event); err != nil {
				t.Errorf("Save() error = %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Save(LoginEvent{Email: "admin@example.com", Success: true})
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("Expected nil store when AUDIT_DATABASE_URL is unset")
	}
}

func TestStoreRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	warning := SeverityWarning

	rows := sqlmock.NewRows([]string{"id", "facility", "severity", "timestamp", "hostname", "appname", "procid", "msgid", "sdata", "message"}).
		AddRow(7, FacilityAuth, int(SeverityWarning), ts, "web-1", AppName, "42", "api-key",
			[]byte(`{"provider@32473":{"provider":"deepseek"}}`), "API key deactivated").
		AddRow(3, FacilityAuthPriv, int(SeverityWarning), ts.Add(-time.Hour), nil, AppName, nil, "login", nil, "Login failed")

	mock.ExpectQuery(`SELECT id, facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message FROM messages WHERE severity <= \$1 ORDER BY timestamp DESC, id DESC LIMIT \$2`).
		WithArgs(int(SeverityWarning), 100).
		WillReturnRows(rows)

	msgs, err := store.Recent(context.Background(), Filter{MaxSeverity: &warning})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].SData[SDIDProvider]["provider"] != "deepseek" {
		t.Errorf("structured data not decoded: %v", msgs[0].SData)
	}
	if msgs[1].Hostname != "" || msgs[1].SData != nil {
		t.Errorf("NULL columns should decode to zero values: %+v", msgs[1])
	}
	if msgs[0].Severity.String() != "warning" {
		t.Errorf("Severity.String() = %q", msgs[0].Severity.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreRecentFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM messages WHERE msgid = \$1 AND timestamp >= \$2 ORDER BY timestamp DESC, id DESC LIMIT \$3`).
		WithArgs("login", since, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	msgs, err := NewStoreWithDB(db).Recent(context.Background(), Filter{MsgID: "login", Since: since, Limit: 5})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if err := store.Save(LoginEvent{Email: "admin@example.com"}); err != nil {
		t.Errorf("Save() on nil store = %v", err)
	}
	msgs, err := store.Recent(context.Background(), Filter{})
	if err != nil || msgs != nil {
		t.Errorf("Recent() on nil store = %v, %v", msgs, err)
	}
}
