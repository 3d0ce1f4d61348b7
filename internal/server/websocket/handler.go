package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/domain/ports"
	"github.com/brianly1003/autosort/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// Handler upgrades requests and subscribes each connection to the hub.
// The optional "events" query parameter is a comma-separated list of event
// types to receive.
type Handler struct {
	hub ports.EventHub
}

// NewHandler creates a handler streaming from h.
func NewHandler(h ports.EventHub) *Handler {
	return &Handler{hub: h}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, h.hub.Unsubscribe)
	h.hub.Subscribe(hub.NewFilteredSubscriber(NewClientSubscriber(client), parseTypes(r.URL.Query().Get("events"))...))
	client.Start()

	log.Debug().Str("client_id", client.ID()).Str("remote", r.RemoteAddr).Msg("websocket client connected")
}

func parseTypes(raw string) []events.EventType {
	var types []events.EventType
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			types = append(types, events.EventType(part))
		}
	}
	return types
}
