// Package store provides storage abstractions for the compliance server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// The GORM implementations live in pkg/server/store/gorm; handler tests use
// testify mocks of the same interfaces.
//
// # Available Stores
//
//   - UsersStore: accounts and login
//   - SystemsStore, AssessmentsStore: the AI system register and its risk assessments
//   - TrainingStore: training content and per-user progress
//   - ApprovalsStore: approval workflow (items, assignments, history)
//   - ActivitiesStore: activity feed
//   - APIKeysStore: encrypted provider keys
//   - TermsStore: regulatory glossary
//   - AlertsStore, DashboardStore: derived views
//   - HealthStore: database connectivity and schema version
//
// # Usage
//
//	systems := gorm.NewSystemsStore(db)
//	system, err := systems.GetSystem(ctx, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
