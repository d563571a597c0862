package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/traitforge/disc-engine/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TickerMessage is one timer update pushed to the client while an
// assessment is running.
type TickerMessage struct {
	Type           string              `json:"type"`
	Phase          models.SessionPhase `json:"phase,omitempty"`
	ElapsedSeconds int                 `json:"elapsed_seconds,omitempty"`
	Answered       int                 `json:"answered,omitempty"`
}

// handleSessionTicker streams the session timer over a websocket: one
// message per second while the machine is running, a final "complete"
// message when it seals, then close.
func (s *Server) handleSessionTicker(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	machine := s.hub.Get(user.ID)
	if machine == nil {
		http.Error(w, "no assessment in progress", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Debug("session ticker connected", "user_id", user.ID)

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			state := machine.State()

			msg := TickerMessage{
				Type:           "tick",
				Phase:          state.Phase,
				ElapsedSeconds: state.ElapsedSeconds,
				Answered:       state.AnsweredCount(),
			}
			if state.Phase != models.SessionRunning {
				msg.Type = "complete"
			}

			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("session ticker disconnected", "user_id", user.ID, "error", err)
				return
			}

			if msg.Type == "complete" {
				return
			}
		}
	}
}
