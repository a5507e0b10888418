package dashboard

import (
	"encoding/json"
	"net/http"
)

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	ActiveSessions int            `json:"active_sessions"`
	HelixItems     int            `json:"helix_items"`
	Sections       map[string]int `json:"sections"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	sections := make(map[string]int)
	for _, s := range d.catalog.Sections() {
		sections[s.Key] = len(s.Records)
	}

	writeJSON(w, http.StatusOK, statsResponse{
		ActiveSessions: d.sessions.Len(),
		HelixItems:     d.sessions.Navigator().Len(),
		Sections:       sections,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
