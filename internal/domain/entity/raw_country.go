package entity

import "strings"

// RawCurrency is a currency entry as published by the country-facts provider
type RawCurrency struct {
	Code   *string `json:"code"`
	Name   *string `json:"name"`
	Symbol *string `json:"symbol"`
}

// RawCountry is an untrusted country record from the country-facts provider.
// Every field may be absent.
type RawCountry struct {
	Name       *string       `json:"name"`
	Capital    *string       `json:"capital"`
	Region     *string       `json:"region"`
	Population *int64        `json:"population"`
	Flag       *string       `json:"flag"`
	Currencies []RawCurrency `json:"currencies"`
}

// Valid reports whether the record carries a name and a population
func (r *RawCountry) Valid() bool {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return false
	}
	return r.Population != nil && *r.Population >= 0
}

// PrimaryCurrency returns the code of the first listed currency.
// Multi-currency countries only ever resolve to that first entry.
func (r *RawCountry) PrimaryCurrency() *string {
	if len(r.Currencies) == 0 {
		return nil
	}

	code := r.Currencies[0].Code
	if code == nil || strings.TrimSpace(*code) == "" {
		return nil
	}

	trimmed := strings.TrimSpace(*code)
	return &trimmed
}
