package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the helix and session endpoints.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/helix/items", handleItems(store))
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreate(store))
		r.Get("/{id}", handleGet(store))
		r.Delete("/{id}", handleDelete(store))
		r.Post("/{id}/next", handleStep(store.Next))
		r.Post("/{id}/previous", handleStep(store.Previous))
		r.Post("/{id}/back", handleStep(store.Back))
		r.Post("/{id}/select", handleSelect(store))
		r.Post("/{id}/scroll", handleScroll(store))
	})
}

func handleItems(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Navigator().Items())
	}
}

func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, store.Create())
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := store.Get(chi.URLParam(r, "id"))
		writeView(w, view, ok)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Delete(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleStep(step func(string) (View, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := step(chi.URLParam(r, "id"))
		writeView(w, view, ok)
	}
}

type selectRequest struct {
	ID *int `json:"id"`
}

func handleSelect(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == nil {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}
		view, ok := store.Select(chi.URLParam(r, "id"), *req.ID)
		writeView(w, view, ok)
	}
}

type scrollRequest struct {
	Delta *float64 `json:"delta"`
}

func handleScroll(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scrollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == nil {
			writeError(w, http.StatusBadRequest, "delta is required")
			return
		}
		view, ok := store.Scroll(chi.URLParam(r, "id"), *req.Delta)
		writeView(w, view, ok)
	}
}

func writeView(w http.ResponseWriter, view View, ok bool) {
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
