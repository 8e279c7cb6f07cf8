package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// TestScore_SaleBonus verifies an on-sale first variant contributes +100.
func TestScore_SaleBonus(t *testing.T) {
	onSale := Product{ID: "p1", Variants: []Variant{{Price: "30", CompareAtPrice: "45"}}}
	fullPrice := Product{ID: "p2", Variants: []Variant{{Price: "30"}}}

	assert.Equal(t, 100, Score(onSale, rankNow)-Score(fullPrice, rankNow))
}

// TestScore_VariantBreadth verifies the 5-per-variant bonus capped at 25.
func TestScore_VariantBreadth(t *testing.T) {
	mk := func(n int) Product {
		p := Product{ID: "p"}
		for i := 0; i < n; i++ {
			p.Variants = append(p.Variants, Variant{Price: "100"})
		}
		return p
	}

	assert.Equal(t, 5, Score(mk(1), rankNow))
	assert.Equal(t, 15, Score(mk(3), rankNow))
	assert.Equal(t, 25, Score(mk(5), rankNow))
	assert.Equal(t, 25, Score(mk(12), rankNow))
}

// TestScore_PriceTiers verifies the price tier bonuses.
func TestScore_PriceTiers(t *testing.T) {
	tests := []struct {
		price string
		bonus int
	}{
		{"15.00", 30},
		{"20.00", 30},
		{"33.00", 20},
		{"40.00", 20},
		{"55.00", 10},
		{"60.00", 10},
		{"75.00", 0},
	}

	for _, tt := range tests {
		p := Product{Variants: []Variant{{Price: tt.price}}}
		assert.Equal(t, 5+tt.bonus, Score(p, rankNow), "price %s", tt.price)
	}
}

// TestScore_ImageAndRecency verifies the image and last-updated bonuses.
func TestScore_ImageAndRecency(t *testing.T) {
	base := Product{Variants: []Variant{{Price: "100"}}}

	withImage := base
	withImage.ImageURL = "https://cdn.example.com/strap.jpg"
	assert.Equal(t, 5, Score(withImage, rankNow)-Score(base, rankNow))

	fresh := base
	fresh.UpdatedAt = rankNow.AddDate(0, 0, -10).Format(time.RFC3339)
	assert.Equal(t, 15, Score(fresh, rankNow)-Score(base, rankNow))

	recent := base
	recent.UpdatedAt = rankNow.AddDate(0, 0, -60).Format(time.RFC3339)
	assert.Equal(t, 5, Score(recent, rankNow)-Score(base, rankNow))

	stale := base
	stale.UpdatedAt = rankNow.AddDate(0, 0, -200).Format(time.RFC3339)
	assert.Equal(t, 0, Score(stale, rankNow)-Score(base, rankNow))

	garbage := base
	garbage.UpdatedAt = "last tuesday"
	assert.Equal(t, Score(base, rankNow), Score(garbage, rankNow))
}

// TestRankProducts_Order verifies descending score with case-insensitive
// title tiebreak, and that reruns are deterministic.
func TestRankProducts_Order(t *testing.T) {
	products := []Product{
		{ID: "cheap", Title: "Budget Band", Variants: []Variant{{Price: "15"}}},
		{ID: "sale", Title: "Discount Strap", Variants: []Variant{{Price: "30", CompareAtPrice: "45"}}},
		{ID: "plain", Title: "Plain Strap", Variants: []Variant{{Price: "100"}}},
	}

	ranked := RankProducts(products, rankNow)

	require.Len(t, ranked, 3)
	assert.Equal(t, "sale", ranked[0].ID)
	assert.Equal(t, "cheap", ranked[1].ID)
	assert.Equal(t, "plain", ranked[2].ID)

	for i := 0; i < 5; i++ {
		again := RankProducts(products, rankNow)
		assert.Equal(t, ranked, again)
	}
}

// TestRankProducts_TitleTiebreak verifies equal scores order by lowercased title.
func TestRankProducts_TitleTiebreak(t *testing.T) {
	products := []Product{
		{ID: "z", Title: "zulu band", Variants: []Variant{{Price: "100"}}},
		{ID: "b", Title: "Bravo Band", Variants: []Variant{{Price: "100"}}},
		{ID: "a", Title: "alpha band", Variants: []Variant{{Price: "100"}}},
	}

	ranked := RankProducts(products, rankNow)

	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "b", ranked[1].ID)
	assert.Equal(t, "z", ranked[2].ID)
}

// TestRankProducts_DuplicateIDs verifies candidates sharing an ID (or with
// empty IDs) keep their own scores instead of collapsing onto one.
func TestRankProducts_DuplicateIDs(t *testing.T) {
	products := []Product{
		{ID: "dup", Title: "Plain Strap", Variants: []Variant{{Price: "100"}}},
		{ID: "dup", Title: "Discount Strap", Variants: []Variant{{Price: "30", CompareAtPrice: "45"}}},
		{ID: "", Title: "Budget Band", Variants: []Variant{{Price: "15"}}},
		{ID: "", Title: "Another Plain Strap", Variants: []Variant{{Price: "100"}}},
	}

	ranked := RankProducts(products, rankNow)

	require.Len(t, ranked, 4)
	assert.Equal(t, "Discount Strap", ranked[0].Title)
	assert.Equal(t, "Budget Band", ranked[1].Title)
	assert.Equal(t, "Another Plain Strap", ranked[2].Title)
	assert.Equal(t, "Plain Strap", ranked[3].Title)
}

// TestRankProducts_InputNotMutated verifies the input slice keeps its order.
func TestRankProducts_InputNotMutated(t *testing.T) {
	products := []Product{
		{ID: "low", Title: "A", Variants: []Variant{{Price: "100"}}},
		{ID: "high", Title: "B", Variants: []Variant{{Price: "10"}}},
	}

	_ = RankProducts(products, rankNow)

	assert.Equal(t, "low", products[0].ID)
	assert.Equal(t, "high", products[1].ID)
}
