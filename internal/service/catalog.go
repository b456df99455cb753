package service

import "cabbook/internal/domain"

// defaultCabTypes is the fixed three-tier catalog. Loaded once, never
// mutated or removed at runtime.
var defaultCabTypes = []domain.CabType{
	{
		ID:          "1",
		Name:        "Economy",
		Description: "Affordable, compact rides for up to 3 passengers",
		BasePrice:   50,
		PricePerKm:  8,
		Image:       "https://images.pexels.com/photos/170811/pexels-photo-170811.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "2",
		Name:        "Premium",
		Description: "Comfortable sedans for up to 4 passengers",
		BasePrice:   80,
		PricePerKm:  12,
		Image:       "https://images.pexels.com/photos/244206/pexels-photo-244206.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "3",
		Name:        "SUV",
		Description: "Spacious rides for up to 6 passengers",
		BasePrice:   120,
		PricePerKm:  15,
		Image:       "https://images.pexels.com/photos/116675/pexels-photo-116675.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
}

// Catalog exposes the immutable cab-type catalog.
type Catalog struct {
	types []domain.CabType
}

// NewCatalog creates the catalog with the default tiers.
func NewCatalog() *Catalog {
	return NewCatalogWith(defaultCabTypes)
}

// NewCatalogWith creates a catalog from explicit tiers. Tests use this to
// pin pricing.
func NewCatalogWith(types []domain.CabType) *Catalog {
	c := &Catalog{types: make([]domain.CabType, len(types))}
	copy(c.types, types)
	return c
}

// List returns the catalog in fixed order.
func (c *Catalog) List() []domain.CabType {
	out := make([]domain.CabType, len(c.types))
	copy(out, c.types)
	return out
}

// GetByID returns the cab type with the given id, or false when the id does
// not resolve.
func (c *Catalog) GetByID(id string) (domain.CabType, bool) {
	for _, t := range c.types {
		if t.ID == id {
			return t, true
		}
	}
	return domain.CabType{}, false
}
