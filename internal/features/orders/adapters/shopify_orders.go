package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/config"
	"support-bridge/internal/core/restclient"
	"support-bridge/internal/features/orders/domain"
)

// orderFields is the shared node selection for order queries.
const orderFields = `
        id
        name
        processedAt
        cancelledAt
        closedAt
        displayFinancialStatus
        displayFulfillmentStatus
        customer { displayName email }
        shippingAddress { name address1 address2 city province country zip phone }
        fulfillments { createdAt status trackingInfo { number url company } }
        lineItems(first: 50) {
          edges {
            node {
              name
              quantity
              sku
              variant {
                title
                image { url }
                product { title onlineStoreUrl }
              }
            }
          }
        }`

// orderByNameQuery runs a targeted search for one order display name.
const orderByNameQuery = `
query($q: String!) {
  orders(first: 1, query: $q) {
    edges {
      node {` + orderFields + `
      }
    }
  }
}`

// recentOrdersQuery pages the most recent orders by processing time.
const recentOrdersQuery = `
query($first: Int!) {
  orders(first: $first, sortKey: PROCESSED_AT, reverse: true) {
    edges {
      node {` + orderFields + `
      }
    }
  }
}`

// ShopifyOrders implements the OrderProvider interface using the Shopify
// Admin GraphQL API.
type ShopifyOrders struct {
	client *restclient.Client
}

// NewShopifyOrders creates a new instance of ShopifyOrders.
func NewShopifyOrders(shop config.ShopifyConfig, http config.HTTPConfig) *ShopifyOrders {
	return &ShopifyOrders{
		client: restclient.New(restclient.Options{
			BaseURL:        shop.AdminGraphQLURL(),
			Retries:        http.Retries,
			RateLimitDelay: http.RateLimitDelay(),
			Timeout:        http.Timeout(),
		}, restclient.HeaderToken("X-Shopify-Access-Token", shop.AdminToken)),
	}
}

// FindByName runs a targeted query for an exact order display name.
func (a *ShopifyOrders) FindByName(ctx context.Context, name string) (*domain.Order, error) {
	data, err := a.client.GraphQL(ctx, orderByNameQuery, map[string]any{
		"q": fmt.Sprintf("name:%q", name),
	})
	if err != nil {
		return nil, err
	}

	orders, err := decodeOrders(data)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

// ListRecent returns up to limit orders, most recently processed first.
func (a *ShopifyOrders) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	data, err := a.client.GraphQL(ctx, recentOrdersQuery, map[string]any{
		"first": limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

// decodeOrders maps an orders connection into domain records.
func decodeOrders(data json.RawMessage) ([]domain.Order, error) {
	var resp struct {
		Orders struct {
			Edges []struct {
				Node spOrder `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode orders response: %w", err))
	}

	orders := make([]domain.Order, 0, len(resp.Orders.Edges))
	for _, edge := range resp.Orders.Edges {
		orders = append(orders, mapOrder(edge.Node))
	}
	return orders, nil
}

// mapOrder converts a raw order node into a domain Order.
func mapOrder(sp spOrder) domain.Order {
	order := domain.Order{
		ID:                sp.ID,
		Name:              sp.Name,
		ProcessedAt:       domain.ParseTime(sp.ProcessedAt),
		CancelledAt:       domain.ParseTime(sp.CancelledAt),
		ClosedAt:          domain.ParseTime(sp.ClosedAt),
		FinancialStatus:   sp.DisplayFinancialStatus,
		FulfillmentStatus: sp.DisplayFulfillmentStatus,
	}

	if sp.Customer != nil {
		order.CustomerName = sp.Customer.DisplayName
		order.CustomerEmail = sp.Customer.Email
	}
	if sp.ShippingAddress != nil {
		order.ShippingAddress = domain.Address{
			Name:     sp.ShippingAddress.Name,
			Address1: sp.ShippingAddress.Address1,
			Address2: sp.ShippingAddress.Address2,
			City:     sp.ShippingAddress.City,
			Province: sp.ShippingAddress.Province,
			Country:  sp.ShippingAddress.Country,
			Zip:      sp.ShippingAddress.Zip,
			Phone:    sp.ShippingAddress.Phone,
		}
	}

	for _, f := range sp.Fulfillments {
		fulfillment := domain.Fulfillment{
			Status:    f.Status,
			CreatedAt: domain.ParseTime(f.CreatedAt),
		}
		for _, tr := range f.TrackingInfo {
			fulfillment.Tracking = append(fulfillment.Tracking, domain.TrackingInfo{
				Number:  tr.Number,
				URL:     tr.URL,
				Company: tr.Company,
			})
		}
		order.Fulfillments = append(order.Fulfillments, fulfillment)
	}

	for _, edge := range sp.LineItems.Edges {
		node := edge.Node
		item := domain.LineItem{
			Name:     node.Name,
			Quantity: node.Quantity,
			SKU:      node.SKU,
		}
		if node.Variant != nil {
			item.VariantTitle = node.Variant.Title
			if node.Variant.Image != nil {
				item.ImageURL = node.Variant.Image.URL
			}
			if node.Variant.Product != nil {
				item.ProductTitle = node.Variant.Product.Title
				item.ProductURL = node.Variant.Product.OnlineStoreURL
			}
		}
		order.LineItems = append(order.LineItems, item)
	}

	return order
}

// internal structs for mapping

// spOrder represents an order node from the Admin GraphQL API.
type spOrder struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	ProcessedAt              string          `json:"processedAt"`
	CancelledAt              string          `json:"cancelledAt"`
	ClosedAt                 string          `json:"closedAt"`
	DisplayFinancialStatus   string          `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string          `json:"displayFulfillmentStatus"`
	Customer                 *spCustomer     `json:"customer"`
	ShippingAddress          *spAddress      `json:"shippingAddress"`
	Fulfillments             []spFulfillment `json:"fulfillments"`
	LineItems                struct {
		Edges []struct {
			Node spLineItem `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type spCustomer struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type spAddress struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone"`
}

type spFulfillment struct {
	CreatedAt    string `json:"createdAt"`
	Status       string `json:"status"`
	TrackingInfo []struct {
		Number  string `json:"number"`
		URL     string `json:"url"`
		Company string `json:"company"`
	} `json:"trackingInfo"`
}

type spLineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	SKU      string `json:"sku"`
	Variant  *struct {
		Title string `json:"title"`
		Image *struct {
			URL string `json:"url"`
		} `json:"image"`
		Product *struct {
			Title          string `json:"title"`
			OnlineStoreURL string `json:"onlineStoreUrl"`
		} `json:"product"`
	} `json:"variant"`
}
