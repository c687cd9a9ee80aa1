// Package money handles the decimal boundary: parsing user-supplied
// amounts into exact decimals and formatting decimals for display in the
// configured currency.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/split"
)

// DefaultCurrency is the display currency when none is configured.
const DefaultCurrency = "GBP"

var maxAmount = decimal.RequireFromString("999999.99")

// ParseAmount parses a user-supplied monetary amount. Common currency
// symbols are stripped; the value must be positive, at most two decimal
// places, and within the ledger's amount cap.
func ParseAmount(input string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(input)
	for _, symbol := range []string{"£", "$", "€"} {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &split.ValidationError{Field: "amount", Reason: "invalid amount format"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &split.ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, &split.ValidationError{Field: "amount", Reason: "amount too large (max 999999.99)"}
	}
	// Compare against the rounded value so trailing zeros ("1.100")
	// still pass; only genuine sub-cent precision is rejected.
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, &split.ValidationError{Field: "amount", Reason: "amount cannot have more than 2 decimal places"}
	}
	return amount, nil
}

// Formatter renders decimals as currency strings.
type Formatter struct {
	code string
}

// NewFormatter returns a formatter for the given ISO currency code,
// falling back to DefaultCurrency for empty or unknown codes.
func NewFormatter(code string) Formatter {
	if code == "" || gomoney.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	return Formatter{code: code}
}

// Currency returns the formatter's ISO currency code.
func (f Formatter) Currency() string { return f.code }

// Format rounds the value to the currency's minor unit and renders it,
// e.g. "£10.50". Internal precision is discarded only here.
func (f Formatter) Format(value decimal.Decimal) string {
	currency := gomoney.GetCurrency(f.code)
	minor := value.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, f.code).Display()
}
