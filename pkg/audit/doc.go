// Package audit writes the security audit trail.
//
// Events are formatted as RFC5424 syslog lines on stdout and, when
// AUDIT_DATABASE_URL is set, also inserted into the messages table.
//
// # Event Types
//
//   - LoginEvent: password logins (authpriv)
//   - RecordEvent: user, system and assessment changes (local0),
//     built with UserEvent, SystemEvent and AssessmentEvent
//   - ApprovalDecisionEvent: approver decisions (local0)
//   - APIKeyEvent: provider keys added, deactivated or checked (auth)
//   - DataExportEvent: CLI database export and import (local0)
//
// # Usage
//
//	audit.Log(audit.LoginEvent{Email: email, ClientIP: ip, Success: true})
//
// Set AIACT_AUDIT_ENABLED=false to disable the trail.
package audit
