package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	roomhandler "github.com/luokai/emberroom/backend/internal/handler/room"
	middlewarePkg "github.com/luokai/emberroom/backend/internal/middleware"
	roommodel "github.com/luokai/emberroom/backend/internal/model/room"
	roomservice "github.com/luokai/emberroom/backend/internal/service/room"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(store *roommodel.Store, svc *roomservice.Service, hub *roomhandler.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	roomHandler := roomhandler.New(store)
	wsHandler := roomhandler.NewWebSocketHandler(store, svc, hub)

	r.Route("/api", func(api chi.Router) {
		roomHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
