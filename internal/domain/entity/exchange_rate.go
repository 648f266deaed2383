package entity

import "strings"

// ExchangeRateTable maps a currency code to its rate against one US dollar
type ExchangeRateTable map[string]float64

// Rate looks up the USD rate for a currency. Missing and non-positive
// rates both resolve to absent.
func (t ExchangeRateTable) Rate(currency string) (*float64, bool) {
	if currency == "" {
		return nil, false
	}

	rate, ok := t[strings.ToUpper(currency)]
	if !ok {
		rate, ok = t[currency]
	}
	if !ok || rate <= 0 {
		return nil, false
	}

	return &rate, true
}
