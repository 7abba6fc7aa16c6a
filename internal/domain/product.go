package domain

// Product represents a catalog entry.
type Product struct {
	ID         string
	Name       string
	UnitAmount int64 // Minor units (cents)
	Currency   string
	Active     bool
}
