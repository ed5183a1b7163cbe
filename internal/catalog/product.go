package catalog

// Product is the catalog model shared by reference across the stores. The
// inventory store owns the stock counter; everything else looks products up
// by id and never holds one beyond a single operation.
type Product struct {
	ID         string            `json:"id"`
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	CategoryID string            `json:"categoryId"`
	Brand      string            `json:"brand"`
	Price      int64             `json:"price"` // smallest currency unit
	Images     []string          `json:"images"`
	Thumbnail  string            `json:"thumbnail"`
	Stock      int               `json:"stock"`
	Specs      map[string]string `json:"specs"`
	ShortDesc  string            `json:"shortDesc,omitempty"`
	IsFeatured bool              `json:"isFeatured"`
}

type Category struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}
