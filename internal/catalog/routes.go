package catalog

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/suppliers", h.ListSuppliers)
	r.Post("/suppliers", h.CreateSupplier)
	r.Get("/suppliers/{id}", h.ShowSupplier)
	r.Put("/suppliers/{id}", h.UpdateSupplier)
	r.Get("/suppliers/{id}/items", h.ListItems)
	r.Post("/suppliers/{id}/items", h.CreateItem)
}
