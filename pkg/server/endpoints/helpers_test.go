package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
)

var (
	adminUser   = &model.User{ID: 1, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin, IsActive: true}
	officerUser = &model.User{ID: 2, Email: "officer@example.com", Name: "Officer", Role: model.RoleComplianceOfficer, IsActive: true}
	viewerUser  = &model.User{ID: 3, Email: "viewer@example.com", Name: "Viewer", Role: model.RoleViewer, IsActive: true}
)

// testEnv is a server wired to mock stores. The database handle is a
// sqlmock connection that no handler reaches.
type testEnv struct {
	t      *testing.T
	srv    *server.Server
	issuer *auth.Issuer

	users       *MockUsersStore
	systems     *MockSystemsStore
	assessments *MockAssessmentsStore
	training    *MockTrainingStore
	approvals   *MockApprovalsStore
	activities  *MockActivitiesStore
	apiKeys     *MockAPIKeysStore
	terms       *MockTermsStore
	alerts      *MockAlertsStore
	dashboard   *MockDashboardStore
	health      *MockHealthStore
}

func newMockGormDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	return db
}

func newTestEnv(t *testing.T, clients ...providers.Client) *testEnv {
	t.Helper()
	audit.SetEnabled(false)

	lggr := logger.Test(t)
	issuer, err := auth.NewIssuer([]byte("endpoints-test-secret"), time.Hour)
	require.NoError(t, err)
	if clients == nil {
		clients = []providers.Client{}
	}

	srv, err := server.NewServer(server.Options{
		DB:         newMockGormDB(t),
		Config:     config.Default(),
		Logger:     lggr,
		Issuer:     issuer,
		KeyManager: providers.NewKeyManager(lggr, providers.WithMaxRetries(1), providers.WithRetryDelay(time.Millisecond)),
		Clients:    clients,
	})
	require.NoError(t, err)

	env := &testEnv{
		t:           t,
		srv:         srv,
		issuer:      issuer,
		users:       &MockUsersStore{},
		systems:     &MockSystemsStore{},
		assessments: &MockAssessmentsStore{},
		training:    &MockTrainingStore{},
		approvals:   &MockApprovalsStore{},
		activities:  &MockActivitiesStore{},
		apiKeys:     &MockAPIKeysStore{},
		terms:       &MockTermsStore{},
		alerts:      &MockAlertsStore{},
		dashboard:   &MockDashboardStore{},
		health:      &MockHealthStore{},
	}
	srv.Stores = &server.Stores{
		UsersStore:       env.users,
		SystemsStore:     env.systems,
		AssessmentsStore: env.assessments,
		TrainingStore:    env.training,
		ApprovalsStore:   env.approvals,
		ActivitiesStore:  env.activities,
		APIKeysStore:     env.apiKeys,
		TermsStore:       env.terms,
		AlertsStore:      env.alerts,
		DashboardStore:   env.dashboard,
		HealthStore:      env.health,
	}
	RegisterAll(srv)

	t.Cleanup(func() {
		env.users.AssertExpectations(t)
		env.systems.AssertExpectations(t)
		env.assessments.AssertExpectations(t)
		env.training.AssertExpectations(t)
		env.approvals.AssertExpectations(t)
		env.apiKeys.AssertExpectations(t)
		env.terms.AssertExpectations(t)
		env.alerts.AssertExpectations(t)
		env.dashboard.AssertExpectations(t)
		env.health.AssertExpectations(t)
	})
	return env
}

// allowActivities accepts any number of activity feed writes.
func (e *testEnv) allowActivities() {
	e.activities.On("Record", mock.Anything).Return(nil).Maybe()
}

// do sends a request through the full middleware chain as user. A nil
// user sends no Authorization header.
func (e *testEnv) do(method, path string, body interface{}, user *model.User) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(e.t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, _, err := e.issuer.Issue(user)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &body)
	return body.Error
}
