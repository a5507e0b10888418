package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/enfoco/enfoco/internal/gateway"
	"github.com/enfoco/enfoco/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// event is the incoming WebSocket message format.
type event struct {
	Type    string  `json:"type"` // next, previous, back, select, scroll, search, chat
	ID      *int    `json:"id,omitempty"`
	Delta   float64 `json:"delta,omitempty"`
	Section string  `json:"section,omitempty"`
	Query   string  `json:"query,omitempty"`
	Context string  `json:"context,omitempty"`
	BookID  *int    `json:"book_id,omitempty"`
	Message string  `json:"message,omitempty"`
}

// reply is the outgoing WebSocket message format.
type reply struct {
	Type      string                `json:"type"` // state, search, chat or error
	SessionID string                `json:"session_id"`
	State     *session.View         `json:"state,omitempty"`
	Section   string                `json:"section,omitempty"`
	Search    *gateway.SearchResult `json:"search,omitempty"`
	Vault     *gateway.VaultResult  `json:"vault,omitempty"`
	Stale     bool                  `json:"stale,omitempty"`
	Answer    string                `json:"answer,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// handleWebSocket attaches the connection to the session named by the
// session_id query parameter, or to a fresh one. Events are handled in
// arrival order.
func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID != "" {
		if _, ok := d.sessions.Get(sessionID); !ok {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	if sessionID == "" {
		sessionID = d.sessions.Create().ID
	}
	log := d.logger.With(zap.String("session", sessionID))
	log.Debug("helix channel opened")

	view, _ := d.sessions.Get(sessionID)
	d.send(conn, log, reply{Type: "state", SessionID: sessionID, State: &view})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil {
			d.sendError(conn, log, sessionID, "invalid message format")
			continue
		}
		d.send(conn, log, d.dispatch(r.Context(), sessionID, ev))
	}
}

func (d *Dashboard) dispatch(ctx context.Context, sessionID string, ev event) reply {
	var (
		view session.View
		ok   bool
	)
	switch ev.Type {
	case "next":
		view, ok = d.sessions.Next(sessionID)
	case "previous":
		view, ok = d.sessions.Previous(sessionID)
	case "back":
		view, ok = d.sessions.Back(sessionID)
	case "select":
		if ev.ID == nil {
			return errorReply(sessionID, "select requires id")
		}
		view, ok = d.sessions.Select(sessionID, *ev.ID)
	case "scroll":
		view, ok = d.sessions.Scroll(sessionID, ev.Delta)
	case "search":
		return d.search(ctx, sessionID, ev)
	case "chat":
		return d.chat(ctx, sessionID, ev)
	default:
		return errorReply(sessionID, "unknown message type: "+ev.Type)
	}
	if !ok {
		return errorReply(sessionID, "session expired")
	}
	return reply{Type: "state", SessionID: sessionID, State: &view}
}

func (d *Dashboard) search(ctx context.Context, sessionID string, ev event) reply {
	section, ok := d.catalog.Section(ev.Section)
	if !ok {
		return errorReply(sessionID, "unknown section: "+ev.Section)
	}
	gen, ok := d.sessions.BeginSearch(sessionID, section.Key)
	if !ok {
		return errorReply(sessionID, "session expired")
	}

	out := reply{Type: "search", SessionID: sessionID, Section: section.Key}
	if section.Key == "vault" {
		res := d.gateway.VaultSearch(ctx, ev.Query, section.Dataset())
		out.Vault = &res
	} else {
		res := d.gateway.Search(ctx, ev.Query, section.Dataset(), section.Label)
		out.Search = &res
	}
	out.Stale = !d.sessions.FinishSearch(sessionID, section.Key, gen)
	return out
}

func (d *Dashboard) chat(ctx context.Context, sessionID string, ev event) reply {
	contextText, message := ev.Context, ev.Message
	if ev.BookID != nil {
		desc, ok := d.catalog.BookContext(*ev.BookID)
		if !ok {
			return errorReply(sessionID, "unknown book")
		}
		contextText = desc
		if strings.TrimSpace(message) == "" {
			message = gateway.DefaultBookQuestion
		}
	}
	if strings.TrimSpace(message) == "" {
		return errorReply(sessionID, "message is required")
	}
	return reply{Type: "chat", SessionID: sessionID, Answer: d.gateway.Chat(ctx, contextText, message)}
}

func errorReply(sessionID, message string) reply {
	return reply{Type: "error", SessionID: sessionID, Error: message}
}

func (d *Dashboard) send(conn *websocket.Conn, log *zap.Logger, resp reply) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Warn("websocket write", zap.Error(err))
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, log *zap.Logger, sessionID, message string) {
	d.send(conn, log, errorReply(sessionID, message))
}
