package endpoints

import (
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterSystemsEndpoints(srv)
	RegisterAssessmentsEndpoints(srv)
	RegisterTrainingEndpoints(srv)
	RegisterApprovalsEndpoints(srv)
	RegisterActivitiesEndpoints(srv)
	RegisterAlertsEndpoints(srv)
	RegisterDashboardEndpoints(srv)
	RegisterAPIKeysEndpoints(srv)
	RegisterTermsEndpoints(srv)
	RegisterAssistantEndpoints(srv)
}
