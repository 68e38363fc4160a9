package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/core/domain"
	"github.com/nikkifashion/stockbot/internal/port"
)

var (
	ErrSKUNotFound     = errors.New("variant or location not found")
	ErrInvalidQuantity = errors.New("quantity must be non-negative")
)

// StockService composes the identifier resolver, product reader and
// inventory mutator into the two user-facing reconciliation operations.
// Every mutation carries an absolute target; relative operations are
// implemented as read-then-compute-then-set.
type StockService struct {
	inventory port.InventoryAPI
	logger    *zap.Logger
}

func NewStockService(inventory port.InventoryAPI, logger *zap.Logger) *StockService {
	return &StockService{inventory: inventory, logger: logger}
}

// StockUpdate reports an absolute set: what the quantity was before and
// what it was set to.
type StockUpdate struct {
	SKU      string
	Previous int
	Target   int
}

// ReturnResult reports an applied return delta and the quantity it
// produced.
type ReturnResult struct {
	SKU         string
	Returned    int
	NewQuantity int
}

// Product fetches a fresh catalog snapshot for the SKU.
func (s *StockService) Product(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.inventory.ProductBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("read product: %w", err)
	}
	if product == nil {
		return nil, ErrSKUNotFound
	}
	return product, nil
}

// SetAbsoluteStock resolves the SKU, reads the current quantity for
// reporting, and sets the on-hand quantity to target.
func (s *StockService) SetAbsoluteStock(ctx context.Context, sku string, target int) (StockUpdate, error) {
	if target < 0 {
		return StockUpdate{}, ErrInvalidQuantity
	}

	pair, current, err := s.resolveAndRead(ctx, sku)
	if err != nil {
		return StockUpdate{}, err
	}

	if _, err := s.inventory.SetAvailableQuantity(ctx, *pair, target); err != nil {
		return StockUpdate{}, err
	}

	s.logger.Info("stock set",
		zap.String("sku", sku),
		zap.Int("previous", current),
		zap.Int("target", target))
	return StockUpdate{SKU: sku, Previous: current, Target: target}, nil
}

// ApplyReturn adds quantity units back to the current stock. The new
// absolute quantity is computed from a fresh read; between that read and
// the mutation no concurrency token is held against the remote, so a
// concurrent writer on the same SKU can be overwritten (lost update).
func (s *StockService) ApplyReturn(ctx context.Context, sku string, quantity int) (ReturnResult, error) {
	if quantity < 0 {
		return ReturnResult{}, ErrInvalidQuantity
	}

	pair, current, err := s.resolveAndRead(ctx, sku)
	if err != nil {
		return ReturnResult{}, err
	}

	target := current + quantity
	if _, err := s.inventory.SetAvailableQuantity(ctx, *pair, target); err != nil {
		return ReturnResult{}, err
	}

	s.logger.Info("return applied",
		zap.String("sku", sku),
		zap.Int("returned", quantity),
		zap.Int("quantity", target))
	return ReturnResult{SKU: sku, Returned: quantity, NewQuantity: target}, nil
}

// resolveAndRead performs the shared resolve-then-read prefix of both
// operations. Identifiers are resolved per call and never reused.
func (s *StockService) resolveAndRead(ctx context.Context, sku string) (*domain.IdentifierPair, int, error) {
	pair, err := s.inventory.ResolveIdentifiers(ctx, sku)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve identifiers: %w", err)
	}
	if pair == nil {
		return nil, 0, ErrSKUNotFound
	}

	product, err := s.inventory.ProductBySKU(ctx, sku)
	if err != nil {
		return nil, 0, fmt.Errorf("read product: %w", err)
	}
	if product == nil || len(product.Variants) == 0 {
		return nil, 0, ErrSKUNotFound
	}

	return pair, product.Variants[0].Quantity, nil
}
