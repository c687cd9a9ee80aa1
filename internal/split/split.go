// Package split implements the expense splitting strategies.
//
// A Strategy turns one expense amount and a participant list into a
// per-participant share mapping. Strategies are pure: they never touch
// ledger state, and every call returns a fresh map. All arithmetic runs
// on decimal.Decimal so shares stay exact until the display boundary.
package split

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies a split strategy variant.
type Kind string

const (
	KindEqual      Kind = "equal"
	KindWeighted   Kind = "weighted"
	KindPercentage Kind = "percentage"
	KindExact      Kind = "exact"
)

// Tolerance is the allowed drift for sum checks (one cent).
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Strategy computes each participant's share of an expense amount.
type Strategy interface {
	Kind() Kind
	// Shares returns the share per participant. The sum of all shares
	// equals amount within Tolerance, or an error is returned and no
	// shares are produced.
	Shares(amount decimal.Decimal, participants []string) (map[string]decimal.Decimal, error)
	fmt.Stringer
}

// validateCommon checks the constraints shared by every strategy.
func validateCommon(amount decimal.Decimal, participants []string) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	if len(participants) == 0 {
		return &ValidationError{Field: "participants", Reason: "participants list cannot be empty"}
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			return &ValidationError{
				Field:        "participants",
				Participants: []string{p},
				Reason:       "duplicate participants found",
			}
		}
		seen[p] = true
	}
	return nil
}

// normalizeKeys returns params re-keyed by trimmed, lowercased names so the
// mapping lines up with ledger-normalized participant names. Keys that
// collide after normalization ("Alice" and "alice") are rejected rather
// than letting map iteration order pick a survivor.
func normalizeKeys(field string, params map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	clean := make(map[string]decimal.Decimal, len(params))
	for name, v := range params {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := clean[key]; ok {
			return nil, &ValidationError{
				Field:        field,
				Participants: []string{key},
				Reason:       fmt.Sprintf("duplicate %s entry for %s", field, key),
			}
		}
		clean[key] = v
	}
	return clean, nil
}

// checkCoverage verifies params has exactly one entry per participant,
// reporting missing and extra names separately.
func checkCoverage(field string, params map[string]decimal.Decimal, participants []string) error {
	var missing []string
	for _, p := range participants {
		if _, ok := params[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Field:        field,
			Participants: missing,
			Reason:       fmt.Sprintf("missing %s for: %s", field, strings.Join(missing, ", ")),
		}
	}
	if len(params) > len(participants) {
		set := make(map[string]bool, len(participants))
		for _, p := range participants {
			set[p] = true
		}
		var extra []string
		for name := range params {
			if !set[name] {
				extra = append(extra, name)
			}
		}
		return &ValidationError{
			Field:        field,
			Participants: extra,
			Reason:       fmt.Sprintf("%s given for unknown participants", field),
		}
	}
	return nil
}

// Equal divides the amount evenly among all participants.
type Equal struct{}

func (Equal) Kind() Kind     { return KindEqual }
func (Equal) String() string { return "equal split" }

func (Equal) Shares(amount decimal.Decimal, participants []string) (map[string]decimal.Decimal, error) {
	if err := validateCommon(amount, participants); err != nil {
		return nil, err
	}
	// Full-precision division; 1/n may be non-terminating and only the
	// display layer rounds.
	share := amount.Div(decimal.NewFromInt(int64(len(participants))))
	shares := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		shares[p] = share
	}
	return shares, nil
}

// Weighted divides the amount proportionally to per-participant weights.
type Weighted struct {
	Weights map[string]decimal.Decimal
}

func (Weighted) Kind() Kind     { return KindWeighted }
func (Weighted) String() string { return "weighted split" }

func (w Weighted) Shares(amount decimal.Decimal, participants []string) (map[string]decimal.Decimal, error) {
	if err := validateCommon(amount, participants); err != nil {
		return nil, err
	}
	if len(w.Weights) == 0 {
		return nil, &ValidationError{Field: "weights", Reason: "weights cannot be empty"}
	}
	weights, err := normalizeKeys("weights", w.Weights)
	if err != nil {
		return nil, err
	}
	if err := checkCoverage("weights", weights, participants); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, p := range participants {
		weight := weights[p]
		if !weight.IsPositive() {
			return nil, &ValidationError{
				Field:        "weights",
				Participants: []string{p},
				Reason:       fmt.Sprintf("weight for %s must be positive", p),
			}
		}
		total = total.Add(weight)
	}

	shares := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		shares[p] = amount.Mul(weights[p]).Div(total)
	}
	return shares, nil
}

// Percentage divides the amount according to per-participant percentages
// that must sum to 100.
type Percentage struct {
	Percentages map[string]decimal.Decimal
}

func (Percentage) Kind() Kind     { return KindPercentage }
func (Percentage) String() string { return "percentage split" }

func (p Percentage) Shares(amount decimal.Decimal, participants []string) (map[string]decimal.Decimal, error) {
	if err := validateCommon(amount, participants); err != nil {
		return nil, err
	}
	if len(p.Percentages) == 0 {
		return nil, &ValidationError{Field: "percentages", Reason: "percentages cannot be empty"}
	}
	percentages, err := normalizeKeys("percentages", p.Percentages)
	if err != nil {
		return nil, err
	}
	if err := checkCoverage("percentages", percentages, participants); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, name := range participants {
		pct := percentages[name]
		if !pct.IsPositive() {
			return nil, &ValidationError{
				Field:        "percentages",
				Participants: []string{name},
				Reason:       fmt.Sprintf("percentage for %s must be positive", name),
			}
		}
		if pct.GreaterThan(hundred) {
			return nil, &ValidationError{
				Field:        "percentages",
				Participants: []string{name},
				Reason:       fmt.Sprintf("percentage for %s cannot exceed 100", name),
			}
		}
		total = total.Add(pct)
	}
	if total.Sub(hundred).Abs().GreaterThanOrEqual(Tolerance) {
		return nil, &ValidationError{
			Field:  "percentages",
			Reason: fmt.Sprintf("percentages must sum to 100 (currently %s)", total.StringFixed(2)),
		}
	}

	shares := make(map[string]decimal.Decimal, len(participants))
	for _, name := range participants {
		shares[name] = amount.Mul(percentages[name]).Div(hundred)
	}
	return shares, nil
}

// Exact assigns a caller-specified amount to each participant. The amounts
// must sum to the expense total within Tolerance; any residual within
// tolerance is absorbed by the first participant so the shares sum exactly.
type Exact struct {
	Amounts map[string]decimal.Decimal
}

func (Exact) Kind() Kind     { return KindExact }
func (Exact) String() string { return "exact split" }

func (e Exact) Shares(amount decimal.Decimal, participants []string) (map[string]decimal.Decimal, error) {
	if err := validateCommon(amount, participants); err != nil {
		return nil, err
	}
	if len(e.Amounts) == 0 {
		return nil, &ValidationError{Field: "exact_amounts", Reason: "exact amounts cannot be empty"}
	}
	amounts, err := normalizeKeys("exact_amounts", e.Amounts)
	if err != nil {
		return nil, err
	}
	if err := checkCoverage("exact_amounts", amounts, participants); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, p := range participants {
		share := amounts[p]
		if share.IsNegative() {
			return nil, &ValidationError{
				Field:        "exact_amounts",
				Participants: []string{p},
				Reason:       fmt.Sprintf("amount for %s cannot be negative", p),
			}
		}
		total = total.Add(share)
	}
	residual := amount.Sub(total)
	if residual.Abs().GreaterThan(Tolerance) {
		return nil, &ValidationError{
			Field:  "exact_amounts",
			Reason: fmt.Sprintf("exact amounts must sum to the total amount (got %s, want %s)", total.StringFixed(2), amount.StringFixed(2)),
		}
	}

	shares := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		shares[p] = amounts[p]
	}
	if !residual.IsZero() {
		// Rounding drift within tolerance lands on the first participant
		// so the shares still sum to the expense amount.
		first := participants[0]
		shares[first] = shares[first].Add(residual)
	}
	return shares, nil
}
