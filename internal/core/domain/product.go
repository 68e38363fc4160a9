package domain

// IdentifierPair carries the opaque remote handles required by the
// inventory mutation API. A pair is resolved per operation and must not
// be reused across operations.
type IdentifierPair struct {
	InventoryItemID string
	LocationID      string
}

type Variant struct {
	SKU      string
	Title    string
	Price    string // decimal string as reported by the remote API
	Quantity int    // may be negative when oversold
}

// Product is a read-only snapshot of the remote catalog entry. Observing
// an updated quantity requires a fresh fetch.
type Product struct {
	Title        string
	Description  string
	URL          string
	Images       []string
	Variants     []Variant
	CurrencyCode string
}
