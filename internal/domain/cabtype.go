package domain

// CabType represents a vehicle tier with its pricing. The catalog is fixed
// at startup and never mutated.
type CabType struct {
	ID          string
	Name        string
	Description string
	BasePrice   float64
	PricePerKm  float64
	Image       string
}
