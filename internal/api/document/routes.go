package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document and category routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/categories", h.ListCategories)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.ListDocuments)
		r.Post("/", h.UploadDocument)
		r.Delete("/*", h.DeleteDocument)
	})
}
