package audit

import "fmt"

// APIKeyEvent records management and health checks of provider API keys.
// Operation is one of added, deactivated or checked.
type APIKeyEvent struct {
	Provider     string
	Fingerprint  string
	Label        string
	Operation    string
	Actor        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e APIKeyEvent) MessageID() string {
	return "api-key"
}

func (e APIKeyEvent) Message() string {
	key := fmt.Sprintf("%s key %s", e.Provider, e.Fingerprint)
	if e.Label != "" {
		key = fmt.Sprintf("%s key %s (%s)", e.Provider, e.Fingerprint, e.Label)
	}
	actor := e.Actor
	if actor == "" {
		actor = "system"
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s", actor, e.Operation, key)
	}
	return withError(fmt.Sprintf("%s: %s %s failed", actor, key, e.Operation), e.ErrorMessage)
}

func (e APIKeyEvent) Severity() Severity {
	if e.Operation == "deactivated" {
		return SeverityWarning
	}
	return outcome(e.Success)
}

func (e APIKeyEvent) Facility() int {
	return FacilityAuth
}

func (e APIKeyEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDProvider: {
			"name":        e.Provider,
			"fingerprint": e.Fingerprint,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.Actor != "" {
		sd[SDIDAuth] = map[string]string{"user": e.Actor}
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}
