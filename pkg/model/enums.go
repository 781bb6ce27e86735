package model

//go:generate go run github.com/dmarkham/enumer -type RiskTier -trimprefix RiskTier -transform snake -json -yaml -sql -output risk_tier.gen.go
//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform snake -json -yaml -sql -output role.gen.go
//go:generate go run github.com/dmarkham/enumer -type SystemStatus -trimprefix SystemStatus -transform snake -json -yaml -sql -output system_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type AssessmentStatus -trimprefix AssessmentStatus -transform snake -json -yaml -sql -output assessment_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type ProgressStatus -trimprefix ProgressStatus -transform snake -json -yaml -sql -output progress_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type ApprovalStatus -trimprefix ApprovalStatus -transform snake -json -yaml -sql -output approval_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type ApprovalType -trimprefix ApprovalType -transform snake -json -yaml -sql -output approval_type.gen.go
//go:generate go run github.com/dmarkham/enumer -type Priority -trimprefix Priority -transform snake -json -yaml -sql -output priority.gen.go
//go:generate go run github.com/dmarkham/enumer -type Decision -trimprefix Decision -transform snake -json -yaml -sql -output decision.gen.go
//go:generate go run github.com/dmarkham/enumer -type HistoryAction -trimprefix HistoryAction -transform snake -json -yaml -sql -output history_action.gen.go

// RiskTier is the EU AI Act risk classification of a system.
type RiskTier int

const (
	RiskTierUnacceptable RiskTier = iota
	RiskTierHigh
	RiskTierLimited
	RiskTierMinimal
)

type Role int

const (
	RoleAdmin Role = iota
	RoleComplianceOfficer
	RoleViewer
)

type SystemStatus int

const (
	SystemStatusDevelopment SystemStatus = iota
	SystemStatusDeployed
	SystemStatusRetired
)

type AssessmentStatus int

const (
	AssessmentStatusDraft AssessmentStatus = iota
	AssessmentStatusInProgress
	AssessmentStatusCompleted
)

type ProgressStatus int

const (
	ProgressStatusNotStarted ProgressStatus = iota
	ProgressStatusInProgress
	ProgressStatusCompleted
)

type ApprovalStatus int

const (
	ApprovalStatusPending ApprovalStatus = iota
	ApprovalStatusApproved
	ApprovalStatusRejected
	ApprovalStatusEscalated
)

// IsOpen reports whether the item still accepts decisions.
func (s ApprovalStatus) IsOpen() bool {
	return s == ApprovalStatusPending || s == ApprovalStatusEscalated
}

type ApprovalType int

const (
	ApprovalTypeSystemRegistration ApprovalType = iota
	ApprovalTypeRiskAssessment
	ApprovalTypePolicyDocument
	ApprovalTypeDeployment
)

// Priority orders approval items; higher values are more urgent.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

type Decision int

const (
	DecisionPending Decision = iota
	DecisionApproved
	DecisionRejected
)

type HistoryAction int

const (
	HistoryActionCreated HistoryAction = iota
	HistoryActionAssigned
	HistoryActionApproved
	HistoryActionRejected
	HistoryActionEscalated
	HistoryActionCommented
)
