package model

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every persisted model in creation order. Both the server and the
// seeder migrate from this list.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Medicine{},
		&Order{},
		&OrderLineItem{},
	}
}
