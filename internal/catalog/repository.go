package catalog

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

// Repository persists suppliers and their catalog items.
type Repository interface {
	ListSuppliers(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, supplier Supplier) error
	ListItems(ctx context.Context, supplierID int64, filters shared.ListFilters) ([]Item, int, error)
	CreateItem(ctx context.Context, item Item) (Item, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListSuppliers(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE 1=1`
	countArgs := []any{}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $1 OR ruc ILIKE $1)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, ruc, name, email, phone, created_at, updated_at FROM suppliers WHERE 1=1`
	args := []any{}
	argCount := 0
	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR ruc ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY ` + supplierSortOrder(filters.SortBy, filters.SortDir)
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

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.RUC, &s.Name, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	const query = `SELECT id, ruc, name, email, phone, created_at, updated_at FROM suppliers WHERE id = $1`
	var s Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.RUC, &s.Name, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, fmt.Errorf("catalog: supplier %d: %w", id, httpx.ErrNotFound)
	}
	return s, err
}

func (r *repository) CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error) {
	const query = `INSERT INTO suppliers (ruc, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, supplier.RUC, supplier.Name, supplier.Email, supplier.Phone).
		Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return Supplier{}, fmt.Errorf("catalog: ruc %s: %w", supplier.RUC, httpx.ErrDuplicate)
	}
	if err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}

func (r *repository) UpdateSupplier(ctx context.Context, id int64, supplier Supplier) error {
	const query = `UPDATE suppliers SET ruc = $1, name = $2, email = $3, phone = $4, updated_at = now() WHERE id = $5`
	tag, err := r.pool.Exec(ctx, query, supplier.RUC, supplier.Name, supplier.Email, supplier.Phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("catalog: supplier %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) ListItems(ctx context.Context, supplierID int64, filters shared.ListFilters) ([]Item, int, error) {
	countQuery := `SELECT COUNT(*) FROM catalog_items WHERE supplier_id = $1`
	countArgs := []any{supplierID}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $2 OR equipment_code ILIKE $2)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, supplier_id, equipment_code, name, generic_group, currency, list_price, created_at, updated_at
		FROM catalog_items WHERE supplier_id = $1`
	args := []any{supplierID}
	argCount := 1
	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR equipment_code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY ` + itemSortOrder(filters.SortBy, filters.SortDir)
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

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.SupplierID, &it.EquipmentCode, &it.Name, &it.GenericGroup,
			&it.Currency, &it.ListPrice, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *repository) CreateItem(ctx context.Context, item Item) (Item, error) {
	const query = `INSERT INTO catalog_items (supplier_id, equipment_code, name, generic_group, currency, list_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, item.SupplierID, item.EquipmentCode, item.Name,
		item.GenericGroup, item.Currency, item.ListPrice).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return Item{}, fmt.Errorf("catalog: equipment code %s: %w", item.EquipmentCode, httpx.ErrDuplicate)
	}
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

func supplierSortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "name":
		return "name " + dir
	case "ruc":
		return "ruc " + dir
	default:
		return "created_at DESC"
	}
}

func itemSortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "name":
		return "name " + dir
	case "code":
		return "equipment_code " + dir
	case "price":
		return "list_price " + dir
	default:
		return "created_at DESC"
	}
}
