package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/config"
	"support-bridge/internal/core/restclient"
	"support-bridge/internal/features/products/domain"
)

// searchPageSize is how many products one search fetches. Filters run
// locally after the fetch, so the page is larger than any request limit to
// leave headroom for dropped variants.
const searchPageSize = 50

// productSearchQuery is the Admin GraphQL document for catalog search.
const productSearchQuery = `
query($q: String!, $first: Int!, $sortKey: ProductSortKeys!, $reverse: Boolean!) {
  products(first: $first, query: $q, sortKey: $sortKey, reverse: $reverse) {
    edges {
      node {
        id
        title
        handle
        onlineStoreUrl
        updatedAt
        featuredImage { url }
        variants(first: 20) {
          edges {
            node {
              id
              title
              sku
              price
              compareAtPrice
              image { url }
            }
          }
        }
      }
    }
  }
}`

// ShopifyCatalog implements the CatalogProvider interface using the Shopify
// Admin GraphQL API.
type ShopifyCatalog struct {
	client *restclient.Client
}

// NewShopifyCatalog creates a new instance of ShopifyCatalog.
func NewShopifyCatalog(shop config.ShopifyConfig, http config.HTTPConfig) *ShopifyCatalog {
	return &ShopifyCatalog{
		client: restclient.New(restclient.Options{
			BaseURL:        shop.AdminGraphQLURL(),
			Retries:        http.Retries,
			RateLimitDelay: http.RateLimitDelay(),
			Timeout:        http.Timeout(),
		}, restclient.HeaderToken("X-Shopify-Access-Token", shop.AdminToken)),
	}
}

// Search executes one catalog search and maps the result to domain products.
func (a *ShopifyCatalog) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Product, error) {
	data, err := a.client.GraphQL(ctx, productSearchQuery, map[string]any{
		"q":       query.Expression,
		"first":   searchPageSize,
		"sortKey": string(query.SortKey),
		"reverse": query.Reverse,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Products struct {
			Edges []struct {
				Node spProduct `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode product search response: %w", err))
	}

	products := make([]domain.Product, 0, len(resp.Products.Edges))
	for _, edge := range resp.Products.Edges {
		products = append(products, mapProduct(edge.Node))
	}
	return products, nil
}

// mapProduct converts a raw catalog node into a domain Product.
func mapProduct(sp spProduct) domain.Product {
	p := domain.Product{
		ID:        sp.ID,
		Title:     sp.Title,
		Handle:    sp.Handle,
		URL:       sp.OnlineStoreURL,
		UpdatedAt: sp.UpdatedAt,
	}
	if sp.FeaturedImage != nil {
		p.ImageURL = sp.FeaturedImage.URL
	}

	for _, edge := range sp.Variants.Edges {
		v := edge.Node
		variant := domain.Variant{
			ID:             v.ID,
			Title:          v.Title,
			SKU:            v.SKU,
			Price:          v.Price,
			CompareAtPrice: v.CompareAtPrice,
		}
		if v.Image != nil {
			variant.ImageURL = v.Image.URL
		}
		if p.URL != "" {
			variant.URL = p.URL + "?variant=" + legacyID(v.ID)
		}
		p.Variants = append(p.Variants, variant)
	}

	return p
}

// legacyID extracts the numeric tail from a gid (gid://shopify/ProductVariant/123).
func legacyID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}

// internal structs for mapping

// spProduct represents a product node from the Admin GraphQL API.
type spProduct struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Handle         string   `json:"handle"`
	OnlineStoreURL string   `json:"onlineStoreUrl"`
	UpdatedAt      string   `json:"updatedAt"`
	FeaturedImage  *spImage `json:"featuredImage"`
	Variants       struct {
		Edges []struct {
			Node spVariant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// spVariant represents a variant node.
type spVariant struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	SKU            string   `json:"sku"`
	Price          string   `json:"price"`
	CompareAtPrice string   `json:"compareAtPrice"`
	Image          *spImage `json:"image"`
}

// spImage holds an image URL.
type spImage struct {
	URL string `json:"url"`
}
