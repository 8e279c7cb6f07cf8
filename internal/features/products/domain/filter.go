package domain

// FilterProducts applies the active filters per variant and drops every
// product left with no surviving variant. The input slice is not mutated.
func FilterProducts(products []Product, f Filters) []Product {
	out := make([]Product, 0, len(products))

	for _, p := range products {
		var surviving []Variant
		for _, v := range p.Variants {
			if variantPasses(v, f) {
				surviving = append(surviving, v)
			}
		}
		if len(surviving) == 0 {
			continue
		}
		p.Variants = surviving
		out = append(out, p)
	}

	return out
}

// variantPasses reports whether a variant survives all active filters.
func variantPasses(v Variant, f Filters) bool {
	if f.PriceMin != nil || f.PriceMax != nil {
		price, ok := ParsePrice(v.Price)
		if !ok {
			// Unparseable price fails only when a bound is active.
			return false
		}
		if f.PriceMin != nil && price < *f.PriceMin {
			return false
		}
		if f.PriceMax != nil && price > *f.PriceMax {
			return false
		}
	}

	if f.OnSale && !v.OnSale() {
		return false
	}

	return true
}
