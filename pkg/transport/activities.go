package transport

import (
	"net/http"
)

// recentActivityLimit caps the cross-case feed on the dashboard.
const recentActivityLimit = 20

func (rt *Router) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := rt.store.ListActivities(r.Context(), r.URL.Query().Get("caseId"))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(activities))
}

func (rt *Router) handleGlobalActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := rt.store.ListRecentActivities(r.Context(), recentActivityLimit)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(activities))
}
