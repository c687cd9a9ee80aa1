package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/split"
)

const maxNameLength = 50

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 ._-]+$`)

// Person is one participant in the ledger. Names are normalized (trimmed,
// lowercased) and unique; TotalPaid and TotalOwed accumulate across
// expenses, and the balance is always derived from them.
type Person struct {
	// ID is the stable identifier for the person.
	ID uuid.UUID

	// Name is the normalized display name, used as the ledger key.
	Name string

	// TotalPaid is the sum of expense amounts this person fronted.
	TotalPaid decimal.Decimal

	// TotalOwed is the sum of shares assigned to this person.
	TotalOwed decimal.Decimal
}

// Balance returns the net position: paid minus owed. Positive means the
// group owes this person money, negative means they owe the group.
func (p *Person) Balance() decimal.Decimal {
	return p.TotalPaid.Sub(p.TotalOwed)
}

func newPerson(name string) *Person {
	return &Person{
		ID:        uuid.New(),
		Name:      name,
		TotalPaid: decimal.Zero,
		TotalOwed: decimal.Zero,
	}
}

// NormalizeName trims and lowercases a person's name so lookups are
// case-insensitive.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// validateName checks a normalized name against the ledger's naming rules.
func validateName(field, name string) error {
	if name == "" {
		return &split.ValidationError{Field: field, Reason: "name cannot be empty"}
	}
	if len(name) > maxNameLength {
		return &split.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("name too long (max %d characters)", maxNameLength),
		}
	}
	if !namePattern.MatchString(name) {
		return &split.ValidationError{
			Field:  field,
			Reason: "name contains invalid characters (use letters, numbers, spaces, hyphens, underscores, dots)",
		}
	}
	return nil
}
