package quotes

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items/{itemID}/quotes", h.ListByItem)
	r.Post("/items/{itemID}/quotes", h.Create)
	r.Get("/items/{itemID}/comparison", h.Compare)
	r.Get("/items/{itemID}/comparison/export", h.ExportComparison)
	r.Get("/quotes/{id}", h.Show)
	r.Post("/quotes/{id}/select", h.Select)
}
