package domain

import "strings"

// DefaultSymbol is used when a request carries no symbol at all.
const DefaultSymbol = "BTCUSD"

// NormalizeSymbol uppercases a ticker and falls back to DefaultSymbol
// for absent or blank input.
func NormalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSymbol
	}
	return strings.ToUpper(s)
}
