package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func RegisterActivitiesEndpoints(s *server.Server) {
	s.API.HandleFunc("/activities", handleListActivities(s.ActivitiesStore, s.Logger.Named("activities"))).Methods("GET")
}

func handleListActivities(activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.ActivityFilter{
			EntityType: r.URL.Query().Get("entity_type"),
			Page:       pageFromQuery(r),
		}
		userID, err := queryUint(r, "user_id")
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		filter.UserID = userID

		list, err := activities.ListActivities(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}
