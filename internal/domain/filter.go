package domain

// AllCategories is the filter selection that matches every product.
const AllCategories = "all"

// FilterByCategory returns the products whose category id equals selection,
// in their original order. An empty selection or AllCategories returns
// products unchanged. Products without a category never match a concrete
// selection.
func FilterByCategory(products []Product, selection string) []Product {
	if selection == "" || selection == AllCategories {
		return products
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category != nil && string(p.Category.ID) == selection {
			out = append(out, p)
		}
	}
	return out
}

// FirstCategories returns at most n categories, for the footer.
func FirstCategories(categories []Category, n int) []Category {
	if len(categories) <= n {
		return categories
	}
	return categories[:n]
}
