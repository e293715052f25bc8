package projects

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotizamed/cotizamed/internal/platform/db"
	"github.com/cotizamed/cotizamed/internal/platform/httpx"
	"github.com/cotizamed/cotizamed/internal/shared"
)

// ListFilters narrows project listings.
type ListFilters struct {
	shared.ListFilters
	Status Status
}

// RepositoryPort describes persistence operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (Project, error)
	GetItem(ctx context.Context, itemID int64) (Item, error)
	List(ctx context.Context, filters ListFilters) ([]Project, int, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateProject(ctx context.Context, p Project) (int64, error)
	InsertItem(ctx context.Context, item Item) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps fn in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// Get returns the project and its items.
func (r *Repository) Get(ctx context.Context, id int64) (Project, error) {
	const query = `SELECT id, code, name, entity, status, created_at, updated_at FROM projects WHERE id = $1`
	var p Project
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Code, &p.Name, &p.Entity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, fmt.Errorf("projects: project %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Project{}, err
	}

	const itemsQuery = `SELECT id, project_id, item_number, equipment_code, equipment_name, generic_group,
			quantity, requires_accessories, notes, suggested_assignee
		FROM project_items WHERE project_id = $1 ORDER BY item_number`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return Project{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProjectID, &it.ItemNumber, &it.EquipmentCode, &it.EquipmentName,
			&it.GenericGroup, &it.Quantity, &it.RequiresAccessories, &it.Notes, &it.SuggestedAssignee); err != nil {
			return Project{}, err
		}
		p.Items = append(p.Items, it)
	}
	return p, rows.Err()
}

// GetItem fetches a single equipment item.
func (r *Repository) GetItem(ctx context.Context, itemID int64) (Item, error) {
	const query = `SELECT id, project_id, item_number, equipment_code, equipment_name, generic_group,
			quantity, requires_accessories, notes, suggested_assignee
		FROM project_items WHERE id = $1`
	var it Item
	err := r.pool.QueryRow(ctx, query, itemID).
		Scan(&it.ID, &it.ProjectID, &it.ItemNumber, &it.EquipmentCode, &it.EquipmentName,
			&it.GenericGroup, &it.Quantity, &it.RequiresAccessories, &it.Notes, &it.SuggestedAssignee)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, fmt.Errorf("projects: item %d: %w", itemID, httpx.ErrNotFound)
	}
	return it, err
}

// List returns projects matching the filters, with the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Project, int, error) {
	countQuery := `SELECT COUNT(*) FROM projects WHERE 1=1`
	countArgs := []any{}
	argCount := 0
	if filters.Status != "" {
		argCount++
		countQuery += ` AND status = $` + strconv.Itoa(argCount)
		countArgs = append(countArgs, string(filters.Status))
	}
	if filters.Search != "" {
		argCount++
		countQuery += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, code, name, entity, status, created_at, updated_at FROM projects WHERE 1=1`
	args := []any{}
	argCount = 0
	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, string(filters.Status))
	}
	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.Limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Entity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

// ListIDsByStatus returns project IDs in a given status, used by the
// comparison warmup job.
func (r *Repository) ListIDsByStatus(ctx context.Context, status Status) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM projects WHERE status = $1 ORDER BY id`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func sortOrder(sortBy, sortDir string) string {
	dir := "DESC"
	if sortDir == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	case "name":
		return "name " + dir
	case "status":
		return "status " + dir
	default:
		return "created_at DESC"
	}
}

func (tx *txRepo) CreateProject(ctx context.Context, p Project) (int64, error) {
	const query = `INSERT INTO projects (code, name, entity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now()) RETURNING id`
	var id int64
	err := tx.tx.QueryRow(ctx, query, p.Code, p.Name, p.Entity, string(p.Status)).Scan(&id)
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("projects: code %s: %w", p.Code, httpx.ErrDuplicate)
	}
	return id, err
}

func (tx *txRepo) InsertItem(ctx context.Context, item Item) (int64, error) {
	const query = `INSERT INTO project_items
		(project_id, item_number, equipment_code, equipment_name, generic_group, quantity, requires_accessories, notes, suggested_assignee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	var id int64
	err := tx.tx.QueryRow(ctx, query, item.ProjectID, item.ItemNumber, item.EquipmentCode, item.EquipmentName,
		item.GenericGroup, item.Quantity, item.RequiresAccessories, item.Notes, item.SuggestedAssignee).Scan(&id)
	return id, err
}

func (tx *txRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := tx.tx.Exec(ctx, `UPDATE projects SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("projects: project %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
