package domain

import (
	"errors"
	"strconv"
	"strings"
)

var ErrMalformedScan = errors.New("malformed scan payload")

// ScanPayload is the result of decoding a QR/barcode. Codes carry either
// "SKU,quantity" or a bare SKU, which implies a single unit.
type ScanPayload struct {
	SKU      string
	Quantity int
	Explicit bool // quantity was encoded in the code itself
}

func ParseScanPayload(text string) (ScanPayload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ScanPayload{}, ErrMalformedScan
	}

	sku, qtyStr, found := strings.Cut(text, ",")
	if !found {
		return ScanPayload{SKU: sku, Quantity: 1}, nil
	}

	sku = strings.TrimSpace(sku)
	qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
	if sku == "" || err != nil || qty < 0 {
		return ScanPayload{}, ErrMalformedScan
	}

	return ScanPayload{SKU: sku, Quantity: qty, Explicit: true}, nil
}
