package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := LoginEvent{
		Email:    "admin@example.com",
		UserID:   1,
		ClientIP: "192.168.1.1",
		Success:  true,
	}

	logger.Log(event)

	output := buf.String()

	if !strings.HasPrefix(output, "<86>1 ") {
		t.Errorf("Expected PRI 86 (authpriv.info), got %q", output)
	}
	if !strings.Contains(output, " aiact ") {
		t.Error("Expected app name 'aiact' in output")
	}
	if !strings.Contains(output, " login ") {
		t.Error("Expected message ID 'login' in output")
	}
	if !strings.Contains(output, `[auth@32473 authenticator="password" user="admin@example.com" user_id="1"]`) {
		t.Errorf("Expected sorted auth structured data in output, got %q", output)
	}
	if !strings.Contains(output, `[client@32473 ip="192.168.1.1"]`) {
		t.Error("Expected client IP in output")
	}
	if !strings.HasSuffix(output, "admin@example.com successfully logged in\n") {
		t.Error("Expected success message in output")
	}
}

func TestEscapeSDValue(t *testing.T) {
	got := escapeSDValue(`a"b]c\d`)
	want := `"a\"b\]c\\d"`
	if got != want {
		t.Errorf("escapeSDValue() = %s, want %s", got, want)
	}
}

func TestLoginEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   LoginEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "successful login",
			event:   LoginEvent{Email: "a@example.com", Success: true},
			wantMsg: "successfully logged in",
			wantSev: SeverityInfo,
		},
		{
			name:    "failed login",
			event:   LoginEvent{Email: "a@example.com", ErrorMessage: "invalid credentials"},
			wantMsg: "failed to log in: invalid credentials",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityAuthPriv {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityAuthPriv)
			}
		})
	}
}

func TestRecordEvents(t *testing.T) {
	tests := []struct {
		name      string
		event     RecordEvent
		wantMsgID string
		wantMsg   string
		wantSev   Severity
	}{
		{
			name:      "system created",
			event:     SystemEvent("create", 3, "CV screener", "officer@example.com", "10.0.0.1", true, ""),
			wantMsgID: "system",
			wantMsg:   `officer@example.com created system "CV screener"`,
			wantSev:   SeverityInfo,
		},
		{
			name:      "assessment deleted",
			event:     AssessmentEvent("delete", 9, "admin@example.com", "10.0.0.1", true, ""),
			wantMsgID: "assessment",
			wantMsg:   "admin@example.com deleted assessment 9",
			wantSev:   SeverityNotice,
		},
		{
			name:      "user creation failed",
			event:     UserEvent("create", 0, "dup@example.com", "admin@example.com", "10.0.0.1", false, "email already exists"),
			wantMsgID: "user",
			wantMsg:   `admin@example.com failed to create user "dup@example.com": email already exists`,
			wantSev:   SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
		})
	}
}

func TestApprovalDecisionEvent(t *testing.T) {
	event := ApprovalDecisionEvent{
		ItemID:        5,
		Title:         "Deploy CV screener",
		ApproverEmail: "officer@example.com",
		Decision:      "rejected",
		ItemStatus:    "rejected",
		Success:       true,
	}

	if event.Severity() != SeverityNotice {
		t.Errorf("Severity() = %v, want %v", event.Severity(), SeverityNotice)
	}
	if !strings.Contains(event.Message(), "item is now rejected") {
		t.Errorf("Message() = %q", event.Message())
	}
	if event.StructuredData()[SDIDAction]["decision"] != "rejected" {
		t.Error("Expected decision in structured data")
	}
}

func TestAPIKeyEvent(t *testing.T) {
	event := APIKeyEvent{
		Provider:    "gemini",
		Fingerprint: "0123456789abcdef",
		Operation:   "deactivated",
		Success:     true,
	}

	if event.Message() != "system deactivated gemini key 0123456789abcdef" {
		t.Errorf("Message() = %q", event.Message())
	}
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", event.Severity(), SeverityWarning)
	}
	if _, ok := event.StructuredData()[SDIDClient]; ok {
		t.Error("Expected no client data for system actions")
	}
}

func TestDataExportEvent(t *testing.T) {
	event := DataExportEvent{
		Operation: "export",
		ArchiveID: "abc",
		Path:      "backup.json",
		Tables:    map[string]int{"users": 3, "ai_systems": 2},
		Success:   true,
	}

	if event.MessageID() != "data-export" {
		t.Errorf("MessageID() = %q", event.MessageID())
	}
	if event.Message() != "database export abc: 5 rows in 2 tables (backup.json)" {
		t.Errorf("Message() = %q", event.Message())
	}
	if event.StructuredData()[SDIDSubject]["tables"] != "ai_systems,users" {
		t.Errorf("tables = %q", event.StructuredData()[SDIDSubject]["tables"])
	}
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	prev := DefaultLogger
	DefaultLogger = NewLogger()
	DefaultLogger.SetWriter(&buf)
	defer func() { DefaultLogger = prev }()

	SetEnabled(false)
	defer SetEnabled(true)

	Log(LoginEvent{Email: "a@example.com", Success: true})
	if buf.Len() != 0 {
		t.Errorf("Expected no output when audit is disabled, got %q", buf.String())
	}
}
