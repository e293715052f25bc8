package projects

// CreateProjectRequest creates a project with manually entered items.
type CreateProjectRequest struct {
	Code   string          `json:"code" validate:"required,max=40"`
	Name   string          `json:"name" validate:"required,max=200"`
	Entity string          `json:"entity" validate:"required,max=200"`
	Items  []CreateItemReq `json:"items" validate:"required,min=1,dive"`
}

// CreateItemReq is one manually entered equipment line.
type CreateItemReq struct {
	ItemNumber          int     `json:"numero_item" validate:"gte=0"`
	EquipmentCode       string  `json:"codigo_equipo" validate:"required,max=60"`
	EquipmentName       string  `json:"nombre_equipo" validate:"required,max=200"`
	GenericGroup        string  `json:"grupo_generico" validate:"max=120"`
	Quantity            int     `json:"cantidad" validate:"required,gte=1"`
	RequiresAccessories bool    `json:"requiere_accesorios"`
	Notes               *string `json:"observaciones,omitempty"`
	SuggestedAssignee   *string `json:"cotizador_sugerido,omitempty"`
}

// ImportProjectRequest creates a project from a raw spreadsheet grid. The
// grid's header layout is inferred by the row mapper.
type ImportProjectRequest struct {
	Code   string     `json:"code" validate:"required,max=40"`
	Name   string     `json:"name" validate:"required,max=200"`
	Entity string     `json:"entity" validate:"required,max=200"`
	Grid   [][]string `json:"grid" validate:"required,min=2"`
}

// UpdateStatusRequest advances the project workflow.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=DRAFT QUOTING SELECTION CLOSED"`
}
