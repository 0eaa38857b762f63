package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/draftroom/bestball-draft/internal/auth"
)

// Routes builds the HTTP router. Queue endpoints require a session; the
// rest of the draft API is open to the room.
func (h *APIHandlers) Routes(provider auth.AuthProvider) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.dal.GetState(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/auth/login", provider.LoginHandler)
	r.Get("/auth/callback", provider.CallbackHandler)
	r.Get("/auth/logout", provider.LogoutHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/draft", h.GetDraftState)
		r.Post("/draft/pick", h.DraftPick)
		r.Post("/draft/reset", h.ResetDraft)
		r.Get("/draft/roster", h.GetRoster)
		r.Get("/draft/positions", h.GetPositionMix)

		r.Get("/players", h.ListPlayers)
		r.Post("/players", h.AddPlayer)
		r.Post("/participants/name", h.SetParticipantName)

		r.Get("/queue", provider.Middleware(h.GetQueue))
		r.Post("/queue/add", provider.Middleware(h.QueueAdd))
		r.Post("/queue/remove", provider.Middleware(h.QueueRemove))
		r.Post("/queue/move", provider.Middleware(h.QueueMove))
		r.Post("/queue/tap", provider.Middleware(h.QueueTap))
		r.Post("/queue/top", provider.Middleware(h.QueueTop))

		r.Get("/events", h.EventsSSE)
	})

	return r
}
