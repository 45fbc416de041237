package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the game API, health check and static client
func NewRouter(mw *Middleware, gameHandler *GameHandler, assets *AssetsHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/sw.js", assets.ServiceWorker)

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.WithSession)

		r.Get("/state", gameHandler.State)
		r.Get("/scores", gameHandler.ListHighScores)

		r.Group(func(r chi.Router) {
			r.Use(mw.LimitInput)

			r.Post("/normal", gameHandler.OpenNormalMenu)
			r.Post("/mode/{mode}", gameHandler.SelectMode)
			r.Post("/modules/{id}", gameHandler.SelectModule)
			r.Post("/sort/place", gameHandler.PlaceWord)
			r.Post("/burst/bubbles/{id}/click", gameHandler.ClickBubble)
			r.Post("/scores", gameHandler.ShowHighScores)
			r.Post("/back", gameHandler.Back)
		})
	})

	r.Handle("/*", assets.Static())

	return r
}
