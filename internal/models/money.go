package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts are JSON numbers on the wire, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
