package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/models", h.ListModels)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.EndSession)
		r.Post("/{id}/questions", h.SubmitQuestion)
		r.Post("/{id}/reset", h.ResetConversation)
		r.Patch("/{id}/settings", h.UpdateSettings)
		r.Get("/{id}/transcript", h.GetTranscript)
	})
}
