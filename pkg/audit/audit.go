package audit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
)

// SDID constants for structured data IDs (RFC5424). 32473 is the
// documentation enterprise number reserved by RFC 5612.
const (
	EnterpriseNumber = 32473
	SDIDAuth         = "auth@32473"
	SDIDSubject      = "subject@32473"
	SDIDAction       = "action@32473"
	SDIDClient       = "client@32473"
	SDIDProvider     = "provider@32473"
)

// AppName is the RFC5424 APP-NAME of every audit line.
const AppName = "aiact"

// Syslog facility constants
const (
	FacilityAuth     = 4  // LOG_AUTH - security/authorization messages
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
	FacilityLocal0   = 16 // LOG_LOCAL0 - compliance record changes
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

var severityNames = [...]string{"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger writes events as RFC5424 lines:
//
//	<PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID [SD] MSG
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	procID   string
	now      func() time.Time
}

func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "-"
	}
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		procID:   strconv.Itoa(os.Getpid()),
		now:      time.Now,
	}
}

func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

func (l *Logger) Log(event Event) {
	line := l.Format(event)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, line)
}

// Format renders event as a single newline-terminated line.
func (l *Logger) Format(event Event) string {
	var b strings.Builder
	pri := event.Facility()*8 + int(event.Severity())
	fmt.Fprintf(&b, "<%d>1 %s %s %s %s %s ",
		pri,
		l.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		l.hostname,
		AppName,
		l.procID,
		event.MessageID(),
	)
	if sd := formatStructuredData(event.StructuredData()); sd != "" {
		b.WriteString(sd)
	} else {
		b.WriteByte('-')
	}
	b.WriteByte(' ')
	b.WriteString(event.Message())
	b.WriteByte('\n')
	return b.String()
}

// formatStructuredData renders [sdid key="value" ...] elements with SD-IDs
// and parameter names sorted so lines are stable.
func formatStructuredData(sd map[string]map[string]string) string {
	var b strings.Builder
	for _, sdid := range sortedKeys(sd) {
		params := sd[sdid]
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('[')
		b.WriteString(sdid)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(escapeSDValue(params[k]))
		}
		b.WriteByte(']')
	}
	return b.String()
}

func sortedKeys(m map[string]map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeSDValue quotes a PARAM-VALUE, escaping '"', '\' and ']' (RFC5424 6.3.3).
func escapeSDValue(value string) string {
	return `"` + sdEscaper.Replace(value) + `"`
}

var sdEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `]`, `\]`)

var (
	DefaultLogger = NewLogger()

	// DefaultStore is opened from AUDIT_DATABASE_URL on the first event; it
	// stays nil when the variable is unset.
	DefaultStore *Store

	enabled     = true
	enabledOnce sync.Once
	storeOnce   sync.Once

	errLog logger.Logger = logger.Nop()
)

func loadEnabled() {
	enabledOnce.Do(func() {
		if env := os.Getenv("AIACT_AUDIT_ENABLED"); env != "" {
			enabled = env != "false" && env != "0" && env != "no"
		}
	})
}

// IsEnabled reports whether events are recorded. AIACT_AUDIT_ENABLED=false
// turns auditing off.
func IsEnabled() bool {
	loadEnabled()
	return enabled
}

// SetEnabled overrides AIACT_AUDIT_ENABLED.
func SetEnabled(on bool) {
	loadEnabled()
	enabled = on
}

// SetLogger sets where failures of the audit store are reported.
func SetLogger(lggr logger.Logger) {
	errLog = lggr.Named("audit")
}

// Log records event on the RFC5424 stream and, when configured, in the
// messages table. Store failures never reach the caller.
func Log(event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	storeOnce.Do(func() {
		var err error
		if DefaultStore, err = NewStore(); err != nil {
			errLog.Errorw("Audit database unavailable", "err", err)
		}
	})
	if err := DefaultStore.Save(event); err != nil {
		errLog.Errorw("Failed to persist audit event", "msgid", event.MessageID(), "err", err)
	}
}
