package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/split"
)

// Expense binds a payer, an amount, a split strategy and the shares the
// strategy produced. Expenses are immutable once added; editing happens by
// removing and re-adding.
type Expense struct {
	// ID is the stable identifier for the expense.
	ID uuid.UUID

	// Payer is the normalized name of the person who fronted the amount.
	Payer string

	// Amount is the total expense amount.
	Amount decimal.Decimal

	// Participants are the normalized names splitting the expense, in the
	// order the caller supplied them.
	Participants []string

	// Strategy is the split variant used to compute Shares.
	Strategy split.Strategy

	// Shares maps each participant to their exact share. The shares sum to
	// Amount within the one-cent tolerance.
	Shares map[string]decimal.Decimal

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// String renders the expense for listings, e.g.
// "42.00 paid by alice due for bob and carol with equal split".
func (e *Expense) String() string {
	return fmt.Sprintf("%s paid by %s due for %s with %s",
		e.Amount.StringFixed(2), e.Payer, joinNames(e.Participants), e.Strategy)
}

// joinNames renders a natural-language list: "a", "a and b", "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
