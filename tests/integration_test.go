package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/adapter/media"
	"github.com/nikkifashion/stockbot/internal/adapter/shopify"
	"github.com/nikkifashion/stockbot/internal/core/service"
	"github.com/nikkifashion/stockbot/internal/port"
)

// fakeShopify emulates the three GraphQL operations against one mutable
// inventory record, so full reconciliation flows run without a store.
type fakeShopify struct {
	mu       sync.Mutex
	sku      string
	quantity int
}

func (f *fakeShopify) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "inventorySetQuantities"):
			f.handleMutation(w, req.Variables)
		case strings.Contains(req.Query, "currencyCode"):
			f.handleProduct(w, req.Variables)
		default:
			f.handleResolve(w, req.Variables)
		}
	}
}

func (f *fakeShopify) handleResolve(w http.ResponseWriter, vars map[string]any) {
	sku, _ := vars["sku"].(string)
	if sku != f.sku {
		fmt.Fprint(w, `{"data":{"productVariants":{"edges":[]},"locations":{"edges":[]}}}`)
		return
	}
	fmt.Fprint(w, `{"data":{
		"productVariants":{"edges":[{"node":{"inventoryItem":{"id":"gid://shopify/InventoryItem/11"}}}]},
		"locations":{"edges":[{"node":{"id":"gid://shopify/Location/7"}}]}
	}}`)
}

func (f *fakeShopify) handleProduct(w http.ResponseWriter, vars map[string]any) {
	sku, _ := vars["sku"].(string)
	if sku != f.sku {
		fmt.Fprint(w, `{"data":{"shop":{"currencyCode":"INR"},"products":{"edges":[]}}}`)
		return
	}
	f.mu.Lock()
	qty := f.quantity
	f.mu.Unlock()
	fmt.Fprintf(w, `{"data":{
		"shop":{"currencyCode":"INR"},
		"products":{"edges":[{"node":{
			"title":"Slim Fit Cargo",
			"description":"Stretch cotton.",
			"onlineStoreUrl":"https://nikkifashion.com/products/slim-fit-cargo",
			"images":{"edges":[{"node":{"src":"https://cdn.example/1.jpg"}}]},
			"variants":{"edges":[{"node":{"sku":%q,"title":"32","price":"1499.00","inventoryQuantity":%d}}]}
		}}]}
	}}`, f.sku, qty)
}

func (f *fakeShopify) handleMutation(w http.ResponseWriter, vars map[string]any) {
	in, _ := vars["in"].(map[string]any)
	quantities, _ := in["quantities"].([]any)
	if len(quantities) != 1 {
		fmt.Fprint(w, `{"data":{"inventorySetQuantities":{"userErrors":[{"field":["input"],"message":"expected one quantity"}]}}}`)
		return
	}
	entry, _ := quantities[0].(map[string]any)
	target := int(entry["quantity"].(float64))

	f.mu.Lock()
	delta := target - f.quantity
	f.quantity = target
	f.mu.Unlock()

	fmt.Fprintf(w, `{"data":{"inventorySetQuantities":{
		"inventoryAdjustmentGroup":{"changes":[{"name":"available","delta":%d}]},
		"userErrors":[]
	}}}`, delta)
}

func newStockService(t *testing.T, fake *fakeShopify) *service.StockService {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	client := shopify.NewClient(srv.URL, "test-token", srv.Client(), zap.NewNop())
	return service.NewStockService(client, zap.NewNop())
}

func TestIntegration_SetStockThenReturn(t *testing.T) {
	fake := &fakeShopify{sku: "CARGO-32", quantity: 5}
	stock := newStockService(t, fake)
	ctx := context.Background()

	update, err := stock.SetAbsoluteStock(ctx, "CARGO-32", 10)
	if err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if update.Previous != 5 || update.Target != 10 {
		t.Errorf("expected 5 -> 10, got %d -> %d", update.Previous, update.Target)
	}

	result, err := stock.ApplyReturn(ctx, "CARGO-32", 3)
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if result.NewQuantity != 13 {
		t.Errorf("expected quantity 13 after return, got %d", result.NewQuantity)
	}
	if fake.quantity != 13 {
		t.Errorf("remote record should end at 13, got %d", fake.quantity)
	}
}

func TestIntegration_UnknownSKU(t *testing.T) {
	fake := &fakeShopify{sku: "CARGO-32", quantity: 5}
	stock := newStockService(t, fake)

	_, err := stock.SetAbsoluteStock(context.Background(), "NOPE", 10)
	if !errors.Is(err, service.ErrSKUNotFound) {
		t.Errorf("expected ErrSKUNotFound, got: %v", err)
	}
	if fake.quantity != 5 {
		t.Errorf("remote record must be untouched, got %d", fake.quantity)
	}
}

// recordingTransport rejects URL photo sends so the cascade exercises the
// download and re-encode path end to end.
type recordingTransport struct {
	mu        sync.Mutex
	photoData [][]byte
	messages  []string
}

func (r *recordingTransport) SendPhotoURL(ctx context.Context, chatID int64, url, caption string) error {
	return fmt.Errorf("%w: url refused", port.ErrRejected)
}

func (r *recordingTransport) SendPhotoData(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photoData = append(r.photoData, data)
	return nil
}

func (r *recordingTransport) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	return errors.New("document refused")
}

func (r *recordingTransport) SendMessage(ctx context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
	return nil
}

func (r *recordingTransport) SendTyping(ctx context.Context, chatID int64) error {
	return nil
}

func TestIntegration_MediaCascadeReencodes(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 1600, 1200))
		w.Header().Set("Content-Type", "image/jpeg")
		jpeg.Encode(w, img, nil)
	}))
	defer imgSrv.Close()

	transport := &recordingTransport{}
	fetcher := media.NewHTTPFetcher(5 * time.Second)
	svc := service.NewMediaService(transport, fetcher, zap.NewNop())

	svc.Deliver(context.Background(), 42, imgSrv.URL+"/product.jpg", "caption")

	if len(transport.photoData) != 1 {
		t.Fatalf("expected 1 re-encoded photo send, got %d", len(transport.photoData))
	}
	img, err := jpeg.Decode(bytes.NewReader(transport.photoData[0]))
	if err != nil {
		t.Fatalf("sent photo is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() > 1024 || img.Bounds().Dy() > 1024 {
		t.Errorf("expected dimensions capped at 1024, got %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
	if len(transport.messages) != 0 {
		t.Errorf("no caption-only fallback expected, got %v", transport.messages)
	}
}

func TestIntegration_MediaCascadeExhaustsToCaption(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	imgSrv.Close() // unreachable host

	transport := &recordingTransport{}
	fetcher := media.NewHTTPFetcher(time.Second)
	svc := service.NewMediaService(transport, fetcher, zap.NewNop())

	svc.Deliver(context.Background(), 42, imgSrv.URL+"/product.jpg", "caption text")

	if len(transport.photoData) != 0 {
		t.Error("no photo upload possible when the host is down")
	}
	if len(transport.messages) != 1 || transport.messages[0] != "caption text" {
		t.Fatalf("expected exactly the caption as text, got %v", transport.messages)
	}
}
