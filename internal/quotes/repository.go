package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotizamed/cotizamed/internal/platform/db"
	"github.com/cotizamed/cotizamed/internal/platform/httpx"
)

// RepositoryPort describes persistence operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (Quote, error)
	ListByItem(ctx context.Context, itemID int64) ([]Quote, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateQuote(ctx context.Context, q Quote) (int64, error)
	InsertAccessory(ctx context.Context, acc Accessory) (int64, error)
	ClearSelection(ctx context.Context, itemID int64) error
	MarkSelected(ctx context.Context, quoteID int64) error
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

const quoteColumns = `q.id, q.ref, q.item_id, q.supplier_id, s.name, q.kind, q.currency,
		q.unit_price, q.delivery_days, q.valid_until, q.selected, q.notes, q.created_at, q.updated_at`

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(&q.ID, &q.Ref, &q.ItemID, &q.SupplierID, &q.SupplierName, &q.Kind, &q.Currency,
		&q.UnitPrice, &q.DeliveryDays, &q.ValidUntil, &q.Selected, &q.Notes, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

// Get returns the quote and its accessories.
func (r *Repository) Get(ctx context.Context, id int64) (Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM quotes q JOIN suppliers s ON s.id = q.supplier_id WHERE q.id = $1`
	q, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, fmt.Errorf("quotes: quote %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Quote{}, err
	}
	accessories, err := r.accessoriesFor(ctx, []int64{id})
	if err != nil {
		return Quote{}, err
	}
	q.Accessories = accessories[id]
	return q, nil
}

// ListByItem returns every quote registered against an equipment item,
// accessories included, oldest first.
func (r *Repository) ListByItem(ctx context.Context, itemID int64) ([]Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM quotes q JOIN suppliers s ON s.id = q.supplier_id
		WHERE q.item_id = $1 ORDER BY q.created_at, q.id`
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []Quote
	var ids []int64
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return quotes, nil
	}

	accessories, err := r.accessoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		quotes[i].Accessories = accessories[quotes[i].ID]
	}
	return quotes, nil
}

func (r *Repository) accessoriesFor(ctx context.Context, quoteIDs []int64) (map[int64][]Accessory, error) {
	const query = `SELECT id, quote_id, name, quantity, unit_price, currency, included_in_proforma
		FROM quote_accessories WHERE quote_id = ANY($1) ORDER BY id`
	rows, err := r.pool.Query(ctx, query, quoteIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Accessory)
	for rows.Next() {
		var acc Accessory
		if err := rows.Scan(&acc.ID, &acc.QuoteID, &acc.Name, &acc.Quantity,
			&acc.UnitPrice, &acc.Currency, &acc.IncludedInProforma); err != nil {
			return nil, err
		}
		out[acc.QuoteID] = append(out[acc.QuoteID], acc)
	}
	return out, rows.Err()
}

func (tx *txRepo) CreateQuote(ctx context.Context, q Quote) (int64, error) {
	const query = `INSERT INTO quotes
		(ref, item_id, supplier_id, kind, currency, unit_price, delivery_days, valid_until, selected, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9, now(), now()) RETURNING id`
	var id int64
	err := tx.tx.QueryRow(ctx, query, q.Ref, q.ItemID, q.SupplierID, string(q.Kind), q.Currency,
		q.UnitPrice, q.DeliveryDays, q.ValidUntil, q.Notes).Scan(&id)
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("quotes: supplier %d already quoted item %d: %w", q.SupplierID, q.ItemID, httpx.ErrDuplicate)
	}
	return id, err
}

func (tx *txRepo) InsertAccessory(ctx context.Context, acc Accessory) (int64, error) {
	const query = `INSERT INTO quote_accessories
		(quote_id, name, quantity, unit_price, currency, included_in_proforma)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := tx.tx.QueryRow(ctx, query, acc.QuoteID, acc.Name, acc.Quantity,
		acc.UnitPrice, acc.Currency, acc.IncludedInProforma).Scan(&id)
	return id, err
}

func (tx *txRepo) ClearSelection(ctx context.Context, itemID int64) error {
	_, err := tx.tx.Exec(ctx, `UPDATE quotes SET selected = false, updated_at = now() WHERE item_id = $1 AND selected`, itemID)
	return err
}

func (tx *txRepo) MarkSelected(ctx context.Context, quoteID int64) error {
	tag, err := tx.tx.Exec(ctx, `UPDATE quotes SET selected = true, updated_at = now() WHERE id = $1`, quoteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotes: quote %d: %w", quoteID, httpx.ErrNotFound)
	}
	return nil
}
