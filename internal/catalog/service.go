package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/cotizamed/cotizamed/internal/platform/httpx"
	"github.com/cotizamed/cotizamed/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListSuppliers(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.ListSuppliers(ctx, filters)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("catalog: invalid supplier id: %w", httpx.ErrValidation)
	}
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := validateSupplier(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.CreateSupplier(ctx, supplier)
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, supplier Supplier) error {
	if id <= 0 {
		return fmt.Errorf("catalog: invalid supplier id: %w", httpx.ErrValidation)
	}
	if err := validateSupplier(supplier); err != nil {
		return err
	}
	return s.repo.UpdateSupplier(ctx, id, supplier)
}

func (s *Service) ListItems(ctx context.Context, supplierID int64, filters shared.ListFilters) ([]Item, int, error) {
	if _, err := s.GetSupplier(ctx, supplierID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListItems(ctx, supplierID, filters)
}

func (s *Service) CreateItem(ctx context.Context, item Item) (Item, error) {
	if err := validateItem(item); err != nil {
		return Item{}, err
	}
	if _, err := s.GetSupplier(ctx, item.SupplierID); err != nil {
		return Item{}, err
	}
	return s.repo.CreateItem(ctx, item)
}

func validateSupplier(sup Supplier) error {
	if strings.TrimSpace(sup.RUC) == "" {
		return fmt.Errorf("catalog: supplier ruc is required: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("catalog: supplier name is required: %w", httpx.ErrValidation)
	}
	return nil
}

func validateItem(item Item) error {
	if strings.TrimSpace(item.EquipmentCode) == "" {
		return fmt.Errorf("catalog: equipment code is required: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("catalog: equipment name is required: %w", httpx.ErrValidation)
	}
	if item.ListPrice < 0 {
		return fmt.Errorf("catalog: list price must not be negative: %w", httpx.ErrValidation)
	}
	return nil
}
