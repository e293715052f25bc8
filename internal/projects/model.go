// Package projects manages procurement projects and their equipment request
// items.
package projects

import (
	"errors"
	"time"
)

// Project lifecycle statuses.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusQuoting   Status = "QUOTING"
	StatusSelection Status = "SELECTION"
	StatusClosed    Status = "CLOSED"
)

// validTransitions encodes the allowed workflow order.
var validTransitions = map[Status]Status{
	StatusDraft:     StatusQuoting,
	StatusQuoting:   StatusSelection,
	StatusSelection: StatusClosed,
}

// Project groups the equipment a health entity wants to buy.
type Project struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Entity    string    `json:"entity"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Items     []Item    `json:"items,omitempty"`
}

// Item is one equipment request line inside a project.
type Item struct {
	ID                  int64   `json:"id"`
	ProjectID           int64   `json:"project_id"`
	ItemNumber          int     `json:"numero_item"`
	EquipmentCode       string  `json:"codigo_equipo"`
	EquipmentName       string  `json:"nombre_equipo"`
	GenericGroup        string  `json:"grupo_generico"`
	Quantity            int     `json:"cantidad"`
	RequiresAccessories bool    `json:"requiere_accesorios"`
	Notes               *string `json:"observaciones,omitempty"`
	SuggestedAssignee   *string `json:"cotizador_sugerido,omitempty"`
}

var (
	// ErrInvalidTransition occurs when a status change violates the workflow.
	ErrInvalidTransition = errors.New("projects: invalid status transition")
)
