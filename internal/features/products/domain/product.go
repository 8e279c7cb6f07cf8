package domain

import (
	"strconv"
	"strings"
)

// Product represents a catalog product candidate with its purchasable variants.
// All instances are request-scoped views of remote state.
type Product struct {
	// ID is the catalog identifier.
	ID string `json:"id"`
	// Title is the product display title.
	Title string `json:"title"`
	// Handle is the catalog URL slug.
	Handle string `json:"handle"`
	// URL is the canonical storefront URL.
	URL string `json:"url,omitempty"`
	// ImageURL is the featured image, if any.
	ImageURL string `json:"image_url,omitempty"`
	// UpdatedAt is the raw last-updated timestamp from the catalog.
	UpdatedAt string `json:"updated_at,omitempty"`
	// Variants are the purchasable configurations, in catalog order.
	// A product never carries an empty variant list past filtering.
	Variants []Variant `json:"variants"`
}

// Variant is a specific purchasable configuration of a product.
type Variant struct {
	// ID is the catalog identifier for the variant.
	ID string `json:"id"`
	// Title is the option combination, e.g. "45mm / Leather / Black".
	Title string `json:"title"`
	// SKU is the stock keeping unit.
	SKU string `json:"sku,omitempty"`
	// Price is the current price as reported by the catalog.
	Price string `json:"price"`
	// CompareAtPrice is the pre-discount price; set only when discounted.
	CompareAtPrice string `json:"compare_at_price,omitempty"`
	// ImageURL is the variant image, if any.
	ImageURL string `json:"image_url,omitempty"`
	// URL is the direct variant URL, if derivable.
	URL string `json:"url,omitempty"`
}

// OnSale reports whether the variant's compare-at price strictly exceeds its
// price. Both must parse as numbers.
func (v Variant) OnSale() bool {
	price, ok := ParsePrice(v.Price)
	if !ok {
		return false
	}
	compare, ok := ParsePrice(v.CompareAtPrice)
	if !ok {
		return false
	}
	return compare > price
}

// ParsePrice parses a catalog price string. Currency symbols and thousands
// separators are tolerated; failure is reported, never raised.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimLeft(s, "$€£ ")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
