package domain

import (
	"strings"
	"time"

	"support-bridge/internal/core/logger"

	"go.uber.org/zap"
)

// Order is a read-only view of a remote order record. Never mutated locally.
type Order struct {
	// ID is the remote order identifier.
	ID string `json:"order_id"`
	// Name is the human-facing display name, e.g. "#1001".
	Name string `json:"name"`
	// ProcessedAt is when the order was processed.
	ProcessedAt time.Time `json:"processed_at,omitempty"`
	// CancelledAt is set when the order was cancelled.
	CancelledAt time.Time `json:"cancelled_at,omitempty"`
	// ClosedAt is set when the order was closed.
	ClosedAt time.Time `json:"closed_at,omitempty"`
	// FinancialStatus is the display financial status (e.g., PAID, REFUNDED).
	FinancialStatus string `json:"financial_status,omitempty"`
	// FulfillmentStatus is the display fulfillment status (e.g., FULFILLED).
	FulfillmentStatus string `json:"fulfillment_status,omitempty"`
	// CustomerName is the customer's display name.
	CustomerName string `json:"customer_name,omitempty"`
	// CustomerEmail is the customer's email address.
	CustomerEmail string `json:"customer_email,omitempty"`
	// ShippingAddress is the delivery address.
	ShippingAddress Address `json:"shipping_address"`
	// Fulfillments lists shipments, in remote order.
	Fulfillments []Fulfillment `json:"fulfillments"`
	// LineItems lists the ordered products, in remote order.
	LineItems []LineItem `json:"line_items"`
}

// Address holds a shipping address.
type Address struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Country  string `json:"country,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Fulfillment is one shipment of an order.
type Fulfillment struct {
	// Status is the fulfillment status (e.g., SUCCESS, IN_TRANSIT).
	Status string `json:"status"`
	// CreatedAt is when the fulfillment was created.
	CreatedAt time.Time `json:"created_at,omitempty"`
	// Tracking lists carrier tracking entries.
	Tracking []TrackingInfo `json:"tracking"`
}

// TrackingInfo is one carrier tracking entry.
type TrackingInfo struct {
	// Number is the carrier tracking number.
	Number string `json:"number"`
	// URL is the carrier tracking page, if provided.
	URL string `json:"url,omitempty"`
	// Company is the carrier name.
	Company string `json:"company,omitempty"`
}

// LineItem is one ordered product line.
type LineItem struct {
	// Name is the product line title.
	Name string `json:"name"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// SKU is the variant SKU.
	SKU string `json:"sku,omitempty"`
	// VariantTitle is the purchased option combination.
	VariantTitle string `json:"variant_title,omitempty"`
	// ProductTitle is the parent product title.
	ProductTitle string `json:"product_title,omitempty"`
	// ProductURL is the storefront URL of the parent product.
	ProductURL string `json:"product_url,omitempty"`
	// ImageURL is the variant image, if any.
	ImageURL string `json:"image_url,omitempty"`
}

// NormalizeOrderNumber turns human-entered input like "Order #1001" into the
// two candidate display-name forms the remote catalog may hold: "#1001" and
// "1001". Returns empty strings when no usable token remains.
func NormalizeOrderNumber(input string) (hashed, bare string) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ""
	}
	// "Order #1001" style input: the last whitespace-delimited token is the number.
	if fields := strings.Fields(s); len(fields) > 1 {
		s = fields[len(fields)-1]
	}
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return "", ""
	}
	return "#" + s, s
}

// ParseTime parses a remote timestamp, tolerating the second-precision ISO
// form some endpoints emit. Failures log a warning and yield the zero time.
func ParseTime(s string) time.Time {
	if s == "" || s == "null" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		logger.Get().Warn("Failed to parse date", zap.String("date", s), zap.Error(err))
		return time.Time{}
	}
	return parsed
}
