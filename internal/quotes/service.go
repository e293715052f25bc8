package quotes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cotizamed/cotizamed/internal/platform/httpx"
	"github.com/cotizamed/cotizamed/internal/pricing"
	"github.com/cotizamed/cotizamed/internal/projects"
)

// ItemProvider resolves project equipment items. Satisfied by the projects
// service.
type ItemProvider interface {
	GetItem(ctx context.Context, itemID int64) (projects.Item, error)
}

// Service orchestrates quote registration, selection and comparison.
type Service struct {
	repo   RepositoryPort
	items  ItemProvider
	calc   *pricing.Calculator
	cache  *ComparisonCache
	logger *slog.Logger
}

// NewService constructs the quotes service. The cache may be nil.
func NewService(repo RepositoryPort, items ItemProvider, calc *pricing.Calculator, cache *ComparisonCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, items: items, calc: calc, cache: cache, logger: logger}
}

// Create registers a supplier quotation with its accessories against an
// equipment item and invalidates the item's cached comparison.
func (s *Service) Create(ctx context.Context, itemID int64, req CreateQuoteRequest) (Quote, error) {
	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		return Quote{}, err
	}

	quote := Quote{
		Ref:          uuid.NewString(),
		ItemID:       itemID,
		SupplierID:   req.SupplierID,
		Kind:         req.Kind,
		Currency:     req.Currency,
		UnitPrice:    req.UnitPrice,
		DeliveryDays: req.DeliveryDays,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
	}
	for _, acc := range req.Accessories {
		quote.Accessories = append(quote.Accessories, Accessory{
			Name:               acc.Name,
			Quantity:           acc.Quantity,
			UnitPrice:          acc.UnitPrice,
			Currency:           acc.Currency,
			IncludedInProforma: acc.IncludedInProforma,
		})
	}
	if err := pricing.Validate(quote.Snapshot(), 1); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", httpx.ErrValidation, err)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateQuote(ctx, quote)
		if err != nil {
			return err
		}
		quote.ID = id
		for i := range quote.Accessories {
			quote.Accessories[i].QuoteID = id
			accID, err := tx.InsertAccessory(ctx, quote.Accessories[i])
			if err != nil {
				return err
			}
			quote.Accessories[i].ID = accID
		}
		return nil
	})
	if err != nil {
		return Quote{}, err
	}
	s.cache.Invalidate(ctx, itemID)
	return quote, nil
}

// Get returns a quote with its accessories.
func (s *Service) Get(ctx context.Context, id int64) (Quote, error) {
	if id <= 0 {
		return Quote{}, fmt.Errorf("quotes: invalid quote id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// ListByItem returns every quote for an equipment item.
func (s *Service) ListByItem(ctx context.Context, itemID int64) ([]Quote, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("quotes: invalid item id: %w", httpx.ErrValidation)
	}
	return s.repo.ListByItem(ctx, itemID)
}

// Select marks one quote as the purchase choice for its item, clearing any
// previous selection in the same transaction.
func (s *Service) Select(ctx context.Context, quoteID int64) (Quote, error) {
	quote, err := s.repo.Get(ctx, quoteID)
	if err != nil {
		return Quote{}, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.ClearSelection(ctx, quote.ItemID); err != nil {
			return err
		}
		return tx.MarkSelected(ctx, quoteID)
	})
	if err != nil {
		return Quote{}, err
	}
	quote.Selected = true
	s.cache.Invalidate(ctx, quote.ItemID)
	return quote, nil
}

// Compare normalizes every quote for an item into the reference currency at
// the item's requested quantity. Results come from the cache when fresh;
// quotes the calculator rejects are left out of the rows.
func (s *Service) Compare(ctx context.Context, itemID int64) (Comparison, error) {
	if cached, ok := s.cache.Get(ctx, itemID); ok {
		return cached, nil
	}
	cmp, err := s.compare(ctx, itemID)
	if err != nil {
		return Comparison{}, err
	}
	s.cache.Set(ctx, cmp)
	return cmp, nil
}

// RefreshComparison recomputes and re-caches an item's comparison,
// bypassing any cached copy. Used by the warmup job.
func (s *Service) RefreshComparison(ctx context.Context, itemID int64) (Comparison, error) {
	cmp, err := s.compare(ctx, itemID)
	if err != nil {
		return Comparison{}, err
	}
	s.cache.Set(ctx, cmp)
	return cmp, nil
}

func (s *Service) compare(ctx context.Context, itemID int64) (Comparison, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return Comparison{}, err
	}
	quotes, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		ItemID:      itemID,
		Quantity:    item.Quantity,
		Reference:   s.calc.Converter().Reference(),
		GeneratedAt: time.Now().UTC(),
	}
	snapshots := make([]pricing.Quotation, 0, len(quotes))
	for _, q := range quotes {
		snapshot := q.Snapshot()
		result, err := s.calc.Calculate(snapshot, float64(item.Quantity))
		if err != nil {
			s.logger.Warn("quote excluded from comparison",
				slog.Int64("quote_id", q.ID), slog.Any("error", err))
			continue
		}
		snapshots = append(snapshots, snapshot)
		cmp.Rows = append(cmp.Rows, ComparisonRow{
			QuoteID:      q.ID,
			Ref:          q.Ref,
			SupplierID:   q.SupplierID,
			SupplierName: q.SupplierName,
			Kind:         pricing.Classify(snapshot),
			Currency:     q.Currency,
			UnitPrice:    q.UnitPrice,
			Selected:     q.Selected,
			Prices:       result,
			DisplayPrice: s.calc.Converter().Format(result.AdjustedUnitPrice),
			DisplayTotal: s.calc.Converter().Format(result.TotalPrice),
		})
	}
	cmp.BestPrice = s.calc.BestPrice(snapshots)
	cmp.WorstPrice = s.calc.WorstPrice(snapshots)
	return cmp, nil
}
