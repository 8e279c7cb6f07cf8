package domain

import "strings"

// SortKey enumerates the catalog sort strategies.
type SortKey string

// SortKeyRelevance orders results by catalog relevance.
const SortKeyRelevance SortKey = "RELEVANCE"

// fallbackExpression is the catalog-wide query used when no tokens result.
// An empty search expression is treated by the catalog as unconstrained and
// produces unpredictable results, so it must never be sent.
const fallbackExpression = "status:active"

const (
	defaultLimit = 5
	minLimit     = 1
	maxLimit     = 25
)

// SearchQuery is a catalog search expression with its sort strategy.
// Immutable once built; one instance per search call.
type SearchQuery struct {
	// Expression is the combined search expression.
	Expression string
	// SortKey selects the catalog sort strategy.
	SortKey SortKey
	// Reverse inverts the sort order.
	Reverse bool
	// Limit is the caller-requested result count, clamped to [1, 25].
	Limit int
}

// Filters holds the recognized structured filters of a product request.
type Filters struct {
	// PriceMin is the inclusive lower price bound; nil when unset.
	PriceMin *float64
	// PriceMax is the inclusive upper price bound; nil when unset.
	PriceMax *float64
	// OnSale restricts results to discounted variants.
	OnSale bool
	// WatchModel, Material, Color and Size feed the search expression.
	WatchModel string
	Material   string
	Color      string
	Size       string
}

// noOpTokens are sentinel values the upstream agent emits for "no filter".
var noOpTokens = map[string]bool{
	"":     true,
	"any":  true,
	"all":  true,
	"none": true,
}

// BuildQuery converts free text plus structured filters into a search
// expression. Token order is load-bearing: it determines phrase proximity in
// the catalog's matching, so free text always precedes the filter tokens and
// the filter tokens keep a fixed order.
func BuildQuery(freeText string, f Filters, limit int) SearchQuery {
	var tokens []string

	if t := strings.TrimSpace(freeText); t != "" {
		tokens = append(tokens, t)
	}
	for _, filterValue := range []string{f.WatchModel, f.Material, f.Color, f.Size} {
		t := strings.TrimSpace(filterValue)
		if noOpTokens[strings.ToLower(t)] {
			continue
		}
		tokens = append(tokens, t)
	}

	expression := strings.Join(tokens, " ")
	if expression == "" {
		expression = fallbackExpression
	}

	return SearchQuery{
		Expression: expression,
		SortKey:    SortKeyRelevance,
		Reverse:    false,
		Limit:      clampLimit(limit),
	}
}

// clampLimit bounds the requested result count to [1, 25]; zero or negative
// input falls back to the default of 5.
func clampLimit(limit int) int {
	if limit == 0 {
		return defaultLimit
	}
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
