package endpoints

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) ListUsers(ctx context.Context, page store.Page) ([]model.User, error) {
	args := m.Called(page)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersStore) CreateUser(ctx context.Context, user *model.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUsersStore) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return m.Called(id, at).Error(0)
}

// MockSystemsStore implements store.SystemsStore for testing using testify/mock
type MockSystemsStore struct {
	mock.Mock
}

func (m *MockSystemsStore) ListSystems(ctx context.Context, filter store.SystemFilter) ([]model.AISystem, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.AISystem), args.Error(1)
}

func (m *MockSystemsStore) GetSystem(ctx context.Context, id uint) (*model.AISystem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AISystem), args.Error(1)
}

func (m *MockSystemsStore) CreateSystem(ctx context.Context, system *model.AISystem) error {
	return m.Called(system).Error(0)
}

func (m *MockSystemsStore) UpdateSystem(ctx context.Context, system *model.AISystem) error {
	return m.Called(system).Error(0)
}

func (m *MockSystemsStore) DeleteSystem(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockSystemsStore) SetRiskTier(ctx context.Context, id uint, tier model.RiskTier) error {
	return m.Called(id, tier).Error(0)
}

// MockAssessmentsStore implements store.AssessmentsStore for testing using testify/mock
type MockAssessmentsStore struct {
	mock.Mock
}

func (m *MockAssessmentsStore) ListAssessments(ctx context.Context, filter store.AssessmentFilter) ([]model.RiskAssessment, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.RiskAssessment), args.Error(1)
}

func (m *MockAssessmentsStore) GetAssessment(ctx context.Context, id uint) (*model.RiskAssessment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RiskAssessment), args.Error(1)
}

func (m *MockAssessmentsStore) CreateAssessment(ctx context.Context, assessment *model.RiskAssessment) error {
	return m.Called(assessment).Error(0)
}

func (m *MockAssessmentsStore) UpdateAssessment(ctx context.Context, assessment *model.RiskAssessment) error {
	return m.Called(assessment).Error(0)
}

func (m *MockAssessmentsStore) DeleteAssessment(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockAssessmentsStore) CompleteAssessment(ctx context.Context, id uint, completedAt time.Time, reviewMonths int) (*model.RiskAssessment, error) {
	args := m.Called(id, completedAt, reviewMonths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RiskAssessment), args.Error(1)
}

// MockTrainingStore implements store.TrainingStore for testing using testify/mock
type MockTrainingStore struct {
	mock.Mock
}

func (m *MockTrainingStore) ListModules(ctx context.Context, includeDrafts bool) ([]model.TrainingModule, error) {
	args := m.Called(includeDrafts)
	return args.Get(0).([]model.TrainingModule), args.Error(1)
}

func (m *MockTrainingStore) GetModule(ctx context.Context, id uint) (*model.TrainingModule, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingModule), args.Error(1)
}

func (m *MockTrainingStore) CreateModule(ctx context.Context, module *model.TrainingModule) error {
	return m.Called(module).Error(0)
}

func (m *MockTrainingStore) UpdateModule(ctx context.Context, module *model.TrainingModule) error {
	return m.Called(module).Error(0)
}

func (m *MockTrainingStore) DeleteModule(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockTrainingStore) GetProgress(ctx context.Context, userID, moduleID uint) (*model.TrainingProgress, error) {
	args := m.Called(userID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingProgress), args.Error(1)
}

func (m *MockTrainingStore) ListProgress(ctx context.Context, userID uint) ([]model.TrainingProgress, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.TrainingProgress), args.Error(1)
}

func (m *MockTrainingStore) SaveProgress(ctx context.Context, progress *model.TrainingProgress) error {
	return m.Called(progress).Error(0)
}

func (m *MockTrainingStore) Summary(ctx context.Context) ([]store.ModuleSummary, error) {
	args := m.Called()
	return args.Get(0).([]store.ModuleSummary), args.Error(1)
}

// MockApprovalsStore implements store.ApprovalsStore for testing using testify/mock
type MockApprovalsStore struct {
	mock.Mock
}

func (m *MockApprovalsStore) ListApprovals(ctx context.Context, filter store.ApprovalFilter) ([]model.ApprovalItem, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.ApprovalItem), args.Error(1)
}

func (m *MockApprovalsStore) GetApproval(ctx context.Context, id uint) (*store.ApprovalDetail, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ApprovalDetail), args.Error(1)
}

func (m *MockApprovalsStore) CreateApproval(ctx context.Context, item *model.ApprovalItem) error {
	return m.Called(item).Error(0)
}

func (m *MockApprovalsStore) Assign(ctx context.Context, itemID, actorID uint, approverIDs []uint) ([]model.ApprovalAssignment, error) {
	args := m.Called(itemID, actorID, approverIDs)
	return args.Get(0).([]model.ApprovalAssignment), args.Error(1)
}

func (m *MockApprovalsStore) Decide(ctx context.Context, in store.DecisionInput) (*store.ApprovalDetail, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ApprovalDetail), args.Error(1)
}

func (m *MockApprovalsStore) AddComment(ctx context.Context, itemID, actorID uint, comment string) (*model.ApprovalHistory, error) {
	args := m.Called(itemID, actorID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalHistory), args.Error(1)
}

func (m *MockApprovalsStore) Escalate(ctx context.Context, cutoff, at time.Time) ([]model.ApprovalItem, error) {
	args := m.Called(cutoff, at)
	return args.Get(0).([]model.ApprovalItem), args.Error(1)
}

// MockActivitiesStore implements store.ActivitiesStore for testing using testify/mock
type MockActivitiesStore struct {
	mock.Mock
}

func (m *MockActivitiesStore) Record(ctx context.Context, activity *model.Activity) error {
	return m.Called(activity).Error(0)
}

func (m *MockActivitiesStore) ListActivities(ctx context.Context, filter store.ActivityFilter) ([]model.Activity, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.Activity), args.Error(1)
}

// MockAPIKeysStore implements store.APIKeysStore for testing using testify/mock
type MockAPIKeysStore struct {
	mock.Mock
}

func (m *MockAPIKeysStore) MarkUsed(ctx context.Context, id uint, at time.Time) error {
	return m.Called(id, at).Error(0)
}

func (m *MockAPIKeysStore) RecordFailure(ctx context.Context, id uint, reason string) error {
	return m.Called(id, reason).Error(0)
}

func (m *MockAPIKeysStore) Deactivate(ctx context.Context, id uint, reason string, at time.Time) error {
	return m.Called(id, reason, at).Error(0)
}

func (m *MockAPIKeysStore) ListKeys(ctx context.Context) ([]model.APIKey, error) {
	args := m.Called()
	return args.Get(0).([]model.APIKey), args.Error(1)
}

func (m *MockAPIKeysStore) ActiveKeys(ctx context.Context) ([]model.APIKey, error) {
	args := m.Called()
	return args.Get(0).([]model.APIKey), args.Error(1)
}

func (m *MockAPIKeysStore) GetKey(ctx context.Context, id uint) (*model.APIKey, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

func (m *MockAPIKeysStore) AddKey(ctx context.Context, key *model.APIKey) error {
	return m.Called(key).Error(0)
}

// MockTermsStore implements store.TermsStore for testing using testify/mock
type MockTermsStore struct {
	mock.Mock
}

func (m *MockTermsStore) ListTerms(ctx context.Context, search string, page store.Page) ([]model.RegulatoryTerm, error) {
	args := m.Called(search, page)
	return args.Get(0).([]model.RegulatoryTerm), args.Error(1)
}

func (m *MockTermsStore) GetTerm(ctx context.Context, id uint) (*model.RegulatoryTerm, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegulatoryTerm), args.Error(1)
}

func (m *MockTermsStore) UpsertTerms(ctx context.Context, terms []model.RegulatoryTerm) (int, error) {
	args := m.Called(terms)
	return args.Int(0), args.Error(1)
}

// MockAlertsStore implements store.AlertsStore for testing using testify/mock
type MockAlertsStore struct {
	mock.Mock
}

func (m *MockAlertsStore) Alerts(ctx context.Context, now time.Time) ([]store.Alert, error) {
	args := m.Called(now)
	return args.Get(0).([]store.Alert), args.Error(1)
}

// MockDashboardStore implements store.DashboardStore for testing using testify/mock
type MockDashboardStore struct {
	mock.Mock
}

func (m *MockDashboardStore) Stats(ctx context.Context, now time.Time) (*store.DashboardStats, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DashboardStats), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) Check(ctx context.Context) (store.Health, error) {
	args := m.Called()
	return args.Get(0).(store.Health), args.Error(1)
}
