package domain

import (
	"sort"
	"strings"
	"time"
)

// Score computes the relevance score for a product from its first variant.
// Deterministic, no randomness; unparseable inputs contribute zero.
func Score(p Product, now time.Time) int {
	if len(p.Variants) == 0 {
		return 0
	}
	v := p.Variants[0]
	score := 0

	if v.OnSale() {
		score += 100
	}

	// Option breadth, capped so variant-heavy products don't dominate.
	breadth := 5 * len(p.Variants)
	if breadth > 25 {
		breadth = 25
	}
	score += breadth

	if price, ok := ParsePrice(v.Price); ok {
		switch {
		case price <= 20:
			score += 30
		case price <= 40:
			score += 20
		case price <= 60:
			score += 10
		}
	}

	if p.ImageURL != "" {
		score += 5
	}

	if updated, err := time.Parse(time.RFC3339, p.UpdatedAt); err == nil {
		age := now.Sub(updated)
		switch {
		case age <= 30*24*time.Hour:
			score += 15
		case age <= 90*24*time.Hour:
			score += 5
		}
	}

	return score
}

// RankProducts orders products by descending score, ties broken by ascending
// case-insensitive title. The two-key sort is stable and total: identical
// input always yields identical output order.
func RankProducts(products []Product, now time.Time) []Product {
	type scored struct {
		product Product
		score   int
	}

	entries := make([]scored, len(products))
	for i, p := range products {
		entries[i] = scored{product: p, score: Score(p, now)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return strings.ToLower(entries[i].product.Title) < strings.ToLower(entries[j].product.Title)
	})

	ranked := make([]Product, len(entries))
	for i, e := range entries {
		ranked[i] = e.product
	}
	return ranked
}
