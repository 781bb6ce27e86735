package audit

import "fmt"

// ApprovalDecisionEvent records an approver's decision on an approval item
type ApprovalDecisionEvent struct {
	ItemID        uint
	Title         string
	ApproverEmail string
	ClientIP      string
	Decision      string
	ItemStatus    string
	Success       bool
	ErrorMessage  string
}

func (e ApprovalDecisionEvent) MessageID() string {
	return "approval"
}

func (e ApprovalDecisionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s approval item %d (%s), item is now %s", e.ApproverEmail, e.Decision, e.ItemID, e.Title, e.ItemStatus)
	}
	return withError(fmt.Sprintf("%s failed to decide approval item %d", e.ApproverEmail, e.ItemID), e.ErrorMessage)
}

func (e ApprovalDecisionEvent) Severity() Severity {
	if e.Success && e.Decision == "rejected" {
		return SeverityNotice
	}
	return outcome(e.Success)
}

func (e ApprovalDecisionEvent) Facility() int {
	return FacilityLocal0
}

func (e ApprovalDecisionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"approval_item": fmt.Sprint(e.ItemID),
		},
		SDIDAuth: {
			"user": e.ApproverEmail,
		},
		SDIDAction: {
			"operation": "decide",
			"decision":  e.Decision,
			"result":    result(e.Success),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}
