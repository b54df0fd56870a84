package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/swimboards/recordboard/live"
	"github.com/swimboards/recordboard/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Embed pages live on arbitrary club domains, so any origin may
	// subscribe. The stream is read-only public data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub           *live.Hub
	publicService services.PublicService
}

func NewWebSocketHandler(hub *live.Hub, publicService services.PublicService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, publicService: publicService}
}

// ServeWs subscribes the connection to the club's room. Unknown club
// slugs are rejected before the upgrade.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	clubSlug := chi.URLParam(r, "clubSlug")
	if clubSlug == "" {
		http.Error(w, "missing club slug", http.StatusBadRequest)
		return
	}

	if _, err := h.publicService.ClubPage(r.Context(), clubSlug); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Debug("websocket upgrade failed", slog.String("club", clubSlug), slog.Any("error", err))
		return
	}

	h.hub.NewClient(conn, clubSlug)
}
