package audit

import "fmt"

func outcome(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// LoginEvent represents a password login attempt
type LoginEvent struct {
	Email        string
	UserID       uint
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in", e.Email)
	}
	return withError(fmt.Sprintf("%s failed to log in", e.Email), e.ErrorMessage)
}

func (e LoginEvent) Severity() Severity {
	return outcome(e.Success)
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"authenticator": "password",
			"user":          e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.UserID != 0 {
		sd[SDIDAuth]["user_id"] = fmt.Sprint(e.UserID)
	}
	return sd
}

// RecordEvent is a change to a compliance record performed by a user.
// The concrete events below fill in the record kind.
type RecordEvent struct {
	Kind         string
	Operation    string
	RecordID     uint
	Name         string
	ActorEmail   string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e RecordEvent) MessageID() string {
	return e.Kind
}

func (e RecordEvent) Message() string {
	target := e.Kind
	if e.Name != "" {
		target = fmt.Sprintf("%s %q", e.Kind, e.Name)
	} else if e.RecordID != 0 {
		target = fmt.Sprintf("%s %d", e.Kind, e.RecordID)
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s", e.ActorEmail, pastTense(e.Operation), target)
	}
	return withError(fmt.Sprintf("%s failed to %s %s", e.ActorEmail, e.Operation, target), e.ErrorMessage)
}

func (e RecordEvent) Severity() Severity {
	if e.Success && e.Operation == "delete" {
		return SeverityNotice
	}
	return outcome(e.Success)
}

func (e RecordEvent) Facility() int {
	return FacilityLocal0
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			e.Kind: fmt.Sprint(e.RecordID),
		},
		SDIDAuth: {
			"user": e.ActorEmail,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

func pastTense(op string) string {
	switch op {
	case "create":
		return "created"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	case "classify":
		return "classified"
	case "complete":
		return "completed"
	}
	return op
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// UserEvent records account administration.
func UserEvent(op string, id uint, email, actor, ip string, success bool, errMsg string) RecordEvent {
	return RecordEvent{Kind: "user", Operation: op, RecordID: id, Name: email, ActorEmail: actor, ClientIP: ip, Success: success, ErrorMessage: errMsg}
}

// SystemEvent records changes to a registered AI system.
func SystemEvent(op string, id uint, name, actor, ip string, success bool, errMsg string) RecordEvent {
	return RecordEvent{Kind: "system", Operation: op, RecordID: id, Name: name, ActorEmail: actor, ClientIP: ip, Success: success, ErrorMessage: errMsg}
}

// AssessmentEvent records changes to a risk assessment.
func AssessmentEvent(op string, id uint, actor, ip string, success bool, errMsg string) RecordEvent {
	return RecordEvent{Kind: "assessment", Operation: op, RecordID: id, ActorEmail: actor, ClientIP: ip, Success: success, ErrorMessage: errMsg}
}
