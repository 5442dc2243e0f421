package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sscprep/mocktest-backend/internal/service"
	ws "github.com/sscprep/mocktest-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the session countdown over WebSocket.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/session/stream
// Pushes one tick event per second with the remaining seconds, and a
// terminal submitted event when the session ends (user or timer).
func (h *WSHandler) SessionStream(c *gin.Context) {
	if _, err := h.sessionService.State(); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	subID, events := h.sessionService.Subscribe()
	defer h.sessionService.Unsubscribe(subID)

	h.log.Info().Int("subscriber", subID).Msg("Countdown stream connected")

	// Read pump: absorbs client pings and detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	for {
		select {
		case <-done:
			h.log.Debug().Int("subscriber", subID).Msg("Countdown stream closed")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Submitted {
				_ = ws.WriteTyped(conn, ws.SubmittedResponse{
					Event:  ws.EventSubmitted,
					Forced: ev.Forced,
				})
				return
			}
			if err := ws.WriteTyped(conn, ws.TickResponse{
				Event:            ws.EventTick,
				RemainingSeconds: ev.RemainingSeconds,
			}); err != nil {
				return
			}
		}
	}
}
