package projects

import (
	"context"
	"fmt"
	"io"

	"github.com/cotizamed/cotizamed/internal/importer"
	"github.com/cotizamed/cotizamed/internal/platform/httpx"
)

// WarmupEnqueuer schedules comparison cache warmups when a project enters
// the selection phase. Nil disables scheduling.
type WarmupEnqueuer interface {
	EnqueueComparisonWarmup(ctx context.Context, projectID int64) error
}

// Service orchestrates project creation and workflow.
type Service struct {
	repo   RepositoryPort
	warmup WarmupEnqueuer
}

// NewService constructs the projects service.
func NewService(repo RepositoryPort, warmup WarmupEnqueuer) *Service {
	return &Service{repo: repo, warmup: warmup}
}

// Create persists a project with manually entered equipment items.
func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (Project, error) {
	items := make([]Item, 0, len(req.Items))
	for i, line := range req.Items {
		number := line.ItemNumber
		if number == 0 {
			number = i + 1
		}
		items = append(items, Item{
			ItemNumber:          number,
			EquipmentCode:       line.EquipmentCode,
			EquipmentName:       line.EquipmentName,
			GenericGroup:        line.GenericGroup,
			Quantity:            line.Quantity,
			RequiresAccessories: line.RequiresAccessories,
			Notes:               line.Notes,
			SuggestedAssignee:   line.SuggestedAssignee,
		})
	}
	return s.create(ctx, req.Code, req.Name, req.Entity, items)
}

// CreateFromGrid maps a raw spreadsheet grid into equipment items and
// persists the project. Mapper errors surface unchanged so the caller can
// show them to the user.
func (s *Service) CreateFromGrid(ctx context.Context, req ImportProjectRequest) (Project, error) {
	rows, err := importer.MapGrid(req.Grid)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %w", httpx.ErrValidation, err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{
			ItemNumber:          row.ItemNumber,
			EquipmentCode:       row.EquipmentCode,
			EquipmentName:       row.EquipmentName,
			GenericGroup:        row.GenericGroup,
			Quantity:            row.Quantity,
			RequiresAccessories: row.RequiresAccessories,
			Notes:               row.Notes,
			SuggestedAssignee:   row.SuggestedAssignee,
		})
	}
	return s.create(ctx, req.Code, req.Name, req.Entity, items)
}

// CreateFromWorkbook reads the first sheet of an xlsx workbook and delegates
// to CreateFromGrid.
func (s *Service) CreateFromWorkbook(ctx context.Context, code, name, entity string, workbook io.Reader) (Project, error) {
	grid, err := importer.ReadWorkbook(workbook)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %w", httpx.ErrValidation, err)
	}
	return s.CreateFromGrid(ctx, ImportProjectRequest{Code: code, Name: name, Entity: entity, Grid: grid})
}

func (s *Service) create(ctx context.Context, code, name, entity string, items []Item) (Project, error) {
	if len(items) == 0 {
		return Project{}, fmt.Errorf("projects: at least one equipment item required: %w", httpx.ErrValidation)
	}
	project := Project{Code: code, Name: name, Entity: entity, Status: StatusDraft}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateProject(ctx, project)
		if err != nil {
			return err
		}
		project.ID = id
		for i := range items {
			items[i].ProjectID = id
			itemID, err := tx.InsertItem(ctx, items[i])
			if err != nil {
				return err
			}
			items[i].ID = itemID
		}
		return nil
	})
	if err != nil {
		return Project{}, err
	}
	project.Items = items
	return project, nil
}

// Get returns a project with its items.
func (s *Service) Get(ctx context.Context, id int64) (Project, error) {
	if id <= 0 {
		return Project{}, fmt.Errorf("projects: invalid project id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// GetItem returns a single equipment item.
func (s *Service) GetItem(ctx context.Context, itemID int64) (Item, error) {
	if itemID <= 0 {
		return Item{}, fmt.Errorf("projects: invalid item id: %w", httpx.ErrValidation)
	}
	return s.repo.GetItem(ctx, itemID)
}

// List returns projects matching filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Project, int, error) {
	return s.repo.List(ctx, filters)
}

// UpdateStatus advances the project workflow. Only the next status in the
// DRAFT → QUOTING → SELECTION → CLOSED chain is accepted.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next Status) (Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if validTransitions[project.Status] != next {
		return Project{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, project.Status, next)
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateStatus(ctx, id, next)
	})
	if err != nil {
		return Project{}, err
	}
	project.Status = next
	if next == StatusSelection && s.warmup != nil {
		// Best effort; the scheduled scan picks the project up later if
		// the enqueue fails.
		_ = s.warmup.EnqueueComparisonWarmup(ctx, id)
	}
	return project, nil
}
