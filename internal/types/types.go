// README: Common value objects shared across modules.
package types

import "fmt"

// ID is an opaque identity for requests and providers.
type ID string

// Money is a currency amount in cents.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// String renders the amount with two decimals, e.g. "BRL 150.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.Currency, m.Amount/100, m.Amount%100)
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
