package projects

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotizamed/cotizamed/internal/importer"
	"github.com/cotizamed/cotizamed/internal/platform/httpx"
)

type memoryRepo struct {
	projects map[int64]Project
	items    map[int64][]Item
	nextID   int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		projects: make(map[int64]Project),
		items:    make(map[int64][]Item),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return Project{}, fmt.Errorf("projects: project %d: %w", id, httpx.ErrNotFound)
	}
	p.Items = append([]Item(nil), r.items[id]...)
	return p, nil
}

func (r *memoryRepo) GetItem(ctx context.Context, itemID int64) (Item, error) {
	for _, items := range r.items {
		for _, it := range items {
			if it.ID == itemID {
				return it, nil
			}
		}
	}
	return Item{}, fmt.Errorf("projects: item %d: %w", itemID, httpx.ErrNotFound)
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Project, int, error) {
	var out []Project
	for _, p := range r.projects {
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (tx *memoryTx) CreateProject(ctx context.Context, p Project) (int64, error) {
	tx.repo.nextID++
	p.ID = tx.repo.nextID
	tx.repo.projects[p.ID] = p
	return p.ID, nil
}

func (tx *memoryTx) InsertItem(ctx context.Context, item Item) (int64, error) {
	tx.repo.nextID++
	item.ID = tx.repo.nextID
	tx.repo.items[item.ProjectID] = append(tx.repo.items[item.ProjectID], item)
	return item.ID, nil
}

func (tx *memoryTx) UpdateStatus(ctx context.Context, id int64, status Status) error {
	p, ok := tx.repo.projects[id]
	if !ok {
		return fmt.Errorf("projects: project %d: %w", id, httpx.ErrNotFound)
	}
	p.Status = status
	tx.repo.projects[id] = p
	return nil
}

type recordingWarmup struct {
	projectIDs []int64
}

func (r *recordingWarmup) EnqueueComparisonWarmup(ctx context.Context, projectID int64) error {
	r.projectIDs = append(r.projectIDs, projectID)
	return nil
}

func TestCreateProject(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	project, err := svc.Create(context.Background(), CreateProjectRequest{
		Code:   "PRY-2024-001",
		Name:   "Equipamiento UCI",
		Entity: "Hospital Regional",
		Items: []CreateItemReq{
			{EquipmentCode: "VEN-01", EquipmentName: "Ventilador", Quantity: 3, RequiresAccessories: true},
			{EquipmentCode: "MON-02", EquipmentName: "Monitor", Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, project.ID)
	assert.Equal(t, StatusDraft, project.Status)
	require.Len(t, project.Items, 2)
	// Item numbers default to 1-based position when not provided.
	assert.Equal(t, 1, project.Items[0].ItemNumber)
	assert.Equal(t, 2, project.Items[1].ItemNumber)
}

func TestCreateProjectRequiresItems(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), CreateProjectRequest{
		Code: "PRY-1", Name: "Vacío", Entity: "Hospital",
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateFromGrid(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	project, err := svc.CreateFromGrid(context.Background(), ImportProjectRequest{
		Code: "PRY-2024-002", Name: "Importado", Entity: "Hospital Nacional",
		Grid: [][]string{
			{"Item", "Código", "Nombre", "Grupo", "Cantidad", "Accesorios"},
			{"1", "EQ-001", "Ventilador", "Respiratorio", "3", "Si"},
			{"2", "EQ-002", "Monitor", "Monitoreo", "2", ""},
		},
	})
	require.NoError(t, err)
	require.Len(t, project.Items, 2)
	assert.Equal(t, "Ventilador", project.Items[0].EquipmentName)
	assert.True(t, project.Items[0].RequiresAccessories)
	assert.Equal(t, 2, project.Items[1].Quantity)
	assert.False(t, project.Items[1].RequiresAccessories)
}

func TestCreateFromGridSurfacesMapperErrors(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.CreateFromGrid(context.Background(), ImportProjectRequest{
		Code: "PRY-X", Name: "Sin datos", Entity: "Hospital",
		Grid: [][]string{{"Item", "Nombre"}},
	})
	assert.ErrorIs(t, err, importer.ErrMissingData)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateStatusWorkflow(t *testing.T) {
	repo := newMemoryRepo()
	warmup := &recordingWarmup{}
	svc := NewService(repo, warmup)
	ctx := context.Background()

	project, err := svc.Create(ctx, CreateProjectRequest{
		Code: "PRY-1", Name: "Proyecto", Entity: "Hospital",
		Items: []CreateItemReq{{EquipmentCode: "EQ-1", EquipmentName: "Equipo", Quantity: 1}},
	})
	require.NoError(t, err)

	// Jumping ahead in the workflow is rejected.
	_, err = svc.UpdateStatus(ctx, project.ID, StatusSelection)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err := svc.UpdateStatus(ctx, project.ID, StatusQuoting)
	require.NoError(t, err)
	assert.Equal(t, StatusQuoting, updated.Status)
	assert.Empty(t, warmup.projectIDs)

	updated, err = svc.UpdateStatus(ctx, project.ID, StatusSelection)
	require.NoError(t, err)
	assert.Equal(t, StatusSelection, updated.Status)
	assert.Equal(t, []int64{project.ID}, warmup.projectIDs)

	_, err = svc.UpdateStatus(ctx, project.ID, StatusClosed)
	require.NoError(t, err)

	// CLOSED is terminal.
	_, err = svc.UpdateStatus(ctx, project.ID, StatusDraft)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
