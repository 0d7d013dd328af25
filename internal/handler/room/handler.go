package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	roommodel "github.com/luokai/emberroom/backend/internal/model/room"
	"github.com/luokai/emberroom/backend/pkg/utils"
)

// Handler serves room creation and existence queries over HTTP.
type Handler struct {
	store *roommodel.Store
}

// New creates the room HTTP handler.
func New(store *roommodel.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the room endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/rooms", h.handleCreateRoom)
	r.Get("/rooms/{roomCode}", h.handleRoomExists)
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	rm := h.store.Create()
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"code": rm.Code})
}

func (h *Handler) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "roomCode")
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"exists": h.store.Exists(code)})
}
