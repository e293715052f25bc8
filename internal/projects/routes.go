package projects

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/projects", h.List)
	r.Post("/projects", h.Create)
	r.Post("/projects/import", h.Import)
	r.Get("/projects/{id}", h.Show)
	r.Post("/projects/{id}/status", h.UpdateStatus)
}
