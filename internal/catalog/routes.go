package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type sectionSummary struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// RegisterRoutes mounts catalog endpoints under /api/catalog.
func RegisterRoutes(r chi.Router, c *Catalog) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", handleList(c))
		r.Get("/{section}", handleSection(c))
	})
}

func handleList(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]sectionSummary, 0, len(c.sections))
		for _, s := range c.sections {
			out = append(out, sectionSummary{Key: s.Key, Label: s.Label, Kind: string(s.Kind), Count: len(s.Records)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleSection(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := c.Section(chi.URLParam(r, "section"))
		if !ok {
			http.Error(w, "unknown section", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
