package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/enfoco/enfoco/internal/catalog"
)

// MaxImageBytes bounds an uploaded image.
const MaxImageBytes = 10 << 20

// SearchTracker tags overlapping searches issued from one navigator session.
// BeginSearch reports false for an unknown session.
type SearchTracker interface {
	BeginSearch(sessionID, section string) (uint64, bool)
	FinishSearch(sessionID, section string, generation uint64) bool
}

// RegisterRoutes mounts the gateway API. tracker may be nil, in which case
// session ids in search requests are ignored.
func RegisterRoutes(r chi.Router, gw Gateway, cat *catalog.Catalog, tracker SearchTracker) {
	r.Post("/api/search/{section}", handleSearch(gw, cat, tracker))
	r.Post("/api/vault/search", handleVaultSearch(gw, cat, tracker))
	r.Post("/api/chat", handleChat(gw, cat))
	r.Post("/api/vision", handleVision(gw))
}

type searchRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type searchResponse struct {
	SearchResult
	Stale bool `json:"stale,omitempty"`
}

type vaultResponse struct {
	VaultResult
	Stale bool `json:"stale,omitempty"`
}

func handleSearch(gw Gateway, cat *catalog.Catalog, tracker SearchTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, ok := cat.Section(chi.URLParam(r, "section"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown section")
			return
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		finish, ok := beginSearch(tracker, req.SessionID, section.Key)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		res := gw.Search(r.Context(), req.Query, section.Dataset(), section.Label)
		writeJSON(w, http.StatusOK, searchResponse{SearchResult: res, Stale: !finish()})
	}
}

func handleVaultSearch(gw Gateway, cat *catalog.Catalog, tracker SearchTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vault, ok := cat.Section("vault")
		if !ok {
			writeError(w, http.StatusNotFound, "vault is not configured")
			return
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		finish, ok := beginSearch(tracker, req.SessionID, vault.Key)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		res := gw.VaultSearch(r.Context(), req.Query, vault.Dataset())
		writeJSON(w, http.StatusOK, vaultResponse{VaultResult: res, Stale: !finish()})
	}
}

// beginSearch registers a search with the tracker and returns the function
// that reports whether it is still the latest one when it completes.
func beginSearch(tracker SearchTracker, sessionID, section string) (func() bool, bool) {
	if tracker == nil || sessionID == "" {
		return func() bool { return true }, true
	}
	gen, ok := tracker.BeginSearch(sessionID, section)
	if !ok {
		return nil, false
	}
	return func() bool { return tracker.FinishSearch(sessionID, section, gen) }, true
}

type chatRequest struct {
	Context string `json:"context"`
	BookID  *int   `json:"book_id,omitempty"`
	Message string `json:"message"`
}

type chatResponse struct {
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html"`
}

func handleChat(gw Gateway, cat *catalog.Catalog) http.HandlerFunc {
	md := goldmark.New()
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.BookID != nil {
			desc, ok := cat.BookContext(*req.BookID)
			if !ok {
				writeError(w, http.StatusNotFound, "unknown book")
				return
			}
			req.Context = desc
			if strings.TrimSpace(req.Message) == "" {
				req.Message = DefaultBookQuestion
			}
		}
		if strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		answer := gw.Chat(r.Context(), req.Context, req.Message)
		var html bytes.Buffer
		if err := md.Convert([]byte(answer), &html); err != nil {
			html.Reset()
		}
		writeJSON(w, http.StatusOK, chatResponse{Answer: answer, AnswerHTML: html.String()})
	}
}

type visionResponse struct {
	Description string `json:"description"`
}

func handleVision(gw Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+(1<<20))
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "image too large")
				return
			}
			writeError(w, http.StatusBadRequest, "expected multipart form")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image field is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading image")
			return
		}
		if len(data) > MaxImageBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "application/octet-stream" {
			mimeType = ""
		}
		desc := gw.AnalyzeVisual(r.Context(), data, mimeType)
		writeJSON(w, http.StatusOK, visionResponse{Description: desc})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
