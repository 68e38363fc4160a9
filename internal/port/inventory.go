package port

import (
	"context"

	"github.com/nikkifashion/stockbot/internal/core/domain"
)

// InventoryAPI is the remote catalog/inventory service. The remote is the
// sole source of truth; nothing read through this port is cached locally.
type InventoryAPI interface {
	// ResolveIdentifiers maps a SKU to the remote inventory-item and
	// location handles. Returns (nil, nil) when either lookup yields no
	// result or the remote reports field-level errors.
	ResolveIdentifiers(ctx context.Context, sku string) (*domain.IdentifierPair, error)

	// ProductBySKU fetches a full product snapshot for the first product
	// matching the SKU. Returns (nil, nil) when no product matches.
	ProductBySKU(ctx context.Context, sku string) (*domain.Product, error)

	// SetAvailableQuantity issues a single absolute "set available to
	// quantity" mutation. The remote has no increment primitive; callers
	// supply the absolute target.
	SetAvailableQuantity(ctx context.Context, pair domain.IdentifierPair, quantity int) (*domain.MutationOutcome, error)
}
