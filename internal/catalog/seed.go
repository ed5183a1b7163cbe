package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed seed/products.json seed/categories.json
var seedFS embed.FS

// Seed returns the mock product catalog shipped with the binary. This stands
// in for the storefront's product feed; in a real deployment the list would
// come from an upstream service and be handed to inventory.Initialize the
// same way.
func Seed() ([]Product, error) {
	data, err := seedFS.ReadFile("seed/products.json")
	if err != nil {
		return nil, fmt.Errorf("read product seed: %w", err)
	}

	var products []Product
	if e2 := json.Unmarshal(data, &products); e2 != nil {
		return nil, fmt.Errorf("decode product seed: %w", e2)
	}
	return products, nil
}

// Categories returns the static category list used for filtering.
func Categories() ([]Category, error) {
	data, err := seedFS.ReadFile("seed/categories.json")
	if err != nil {
		return nil, fmt.Errorf("read category seed: %w", err)
	}

	var categories []Category
	if e2 := json.Unmarshal(data, &categories); e2 != nil {
		return nil, fmt.Errorf("decode category seed: %w", e2)
	}
	return categories, nil
}
