package telegram

import (
	"fmt"
	"strings"

	"github.com/nikkifashion/stockbot/internal/core/domain"
)

// buildProductCaption renders the Markdown product card used both as a
// photo caption and as a plain message when the product has no images.
func buildProductCaption(p *domain.Product) string {
	sym := domain.CurrencySymbol(p.CurrencyCode)

	lines := []string{
		fmt.Sprintf("*%s*", p.Title),
		fmt.Sprintf("[View](%s)", p.URL),
		"",
		p.Description,
		"",
		"*Variants & Inventory:*",
	}
	for _, v := range p.Variants {
		lines = append(lines, fmt.Sprintf("• `%s` — %s — %s%s — stock: %d",
			v.SKU, v.Title, sym, domain.FormatPrice(v.Price), v.Quantity))
	}
	return strings.Join(lines, "\n")
}
