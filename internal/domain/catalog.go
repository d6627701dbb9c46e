package domain

// DefaultCategory is the general knowledge category.
const DefaultCategory = "opsta"

// Category is an entry of the fixed category catalog.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var catalog = []Category{
	{ID: "fizika", Title: "Физика"},
	{ID: "hemija", Title: "Хемија"},
	{ID: "psihologija", Title: "Психологија"},
	{ID: "latinske", Title: "Латинске изреке"},
	{ID: "opsta", Title: "Општа информисаност"},
	{ID: "koznazna", Title: "Ко зна зна"},
}

// Categories returns the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCategory finds a catalog entry by ID.
func LookupCategory(id string) (Category, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryOrDefault returns id when it is in the catalog, otherwise DefaultCategory.
func CategoryOrDefault(id string) string {
	if _, ok := LookupCategory(id); ok {
		return id
	}
	return DefaultCategory
}
