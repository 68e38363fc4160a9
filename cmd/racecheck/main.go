// Command racecheck demonstrates the documented lost-update hazard in the
// return flow: ApplyReturn reads the current quantity and then issues an
// absolute set with no concurrency token, so concurrent returns on the
// same SKU can overwrite each other.
package main

import (
	"context"
	"log"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/core/domain"
	"github.com/nikkifashion/stockbot/internal/core/service"
)

const (
	sku            = "RACE-SKU-1"
	initialStock   = 100
	totalReturns   = 20
	networkLatency = 20 * time.Millisecond
)

// memoryInventory simulates the remote inventory record with an
// artificial per-call latency wide enough for the race window to show.
type memoryInventory struct {
	mu       sync.Mutex
	quantity int
}

func (m *memoryInventory) ResolveIdentifiers(ctx context.Context, sku string) (*domain.IdentifierPair, error) {
	time.Sleep(networkLatency)
	return &domain.IdentifierPair{InventoryItemID: "gid://item/1", LocationID: "gid://location/1"}, nil
}

func (m *memoryInventory) ProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	time.Sleep(networkLatency)
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.Product{
		Title:    "Race Check Item",
		Variants: []domain.Variant{{SKU: sku, Quantity: m.quantity}},
	}, nil
}

func (m *memoryInventory) SetAvailableQuantity(ctx context.Context, pair domain.IdentifierPair, quantity int) (*domain.MutationOutcome, error) {
	time.Sleep(networkLatency)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quantity = quantity
	return &domain.MutationOutcome{}, nil
}

func main() {
	inventory := &memoryInventory{quantity: initialStock}
	stock := service.NewStockService(inventory, zap.NewNop())

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < totalReturns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := stock.ApplyReturn(context.Background(), sku, 1); err != nil {
				log.Printf("return failed: %v", err)
			}
		}()
	}
	wg.Wait()

	expected := initialStock + totalReturns
	log.Printf("issued %d concurrent returns of 1 in %v", totalReturns, time.Since(start))
	log.Printf("expected quantity %d, remote ended at %d", expected, inventory.quantity)
	if inventory.quantity < expected {
		log.Printf("lost %d updates: reads raced with absolute sets", expected-inventory.quantity)
	} else {
		log.Printf("no update lost this run; the window is timing dependent")
	}
}
