// Package domain holds the core types of the ledger: entities, exchange
// rates, profiles, notifications, and the error taxonomy shared by every
// layer above it.
package domain

import (
	money "github.com/Rhymond/go-money"
)

// Currency is a supported currency tag. Every amount in the system carries
// one; nothing is ever implicitly assumed to be in the reference currency.
type Currency string

const (
	// USD is the reference currency all aggregates are expressed in.
	USD Currency = "USD"
	// VES is the local fiat currency, quoted against USD by the official rate.
	VES Currency = "VES"
	// EUR converts through the cross of the two official VES pairs.
	EUR Currency = "EUR"
)

// ReferenceCurrency is the common currency for aggregate totals.
const ReferenceCurrency = USD

// SupportedCurrencies lists every valid currency tag.
var SupportedCurrencies = []Currency{USD, VES, EUR}

// ValidCurrency reports whether c is in the supported set.
func ValidCurrency(c Currency) bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// FormatAmount renders an amount with its currency symbol for
// user-facing messages (notifications, settlement summaries).
// VES is not in the ISO table go-money ships, so it is formatted by hand.
func FormatAmount(amount float64, c Currency) string {
	if c == VES {
		return money.NewFormatter(2, ".", ",", "Bs.", "$ 1").Format(int64(amount * 100))
	}
	m := money.NewFromFloat(amount, string(c))
	return m.Display()
}
