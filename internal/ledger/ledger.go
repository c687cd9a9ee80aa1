// Package ledger holds the in-memory accounting model: people, expenses
// and the settlement algorithm. A Ledger is a single mutable resource; all
// methods are safe for concurrent use through an internal read-write lock,
// and every mutation is all-or-nothing.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/split"
)

const (
	maxPeople       = 1000
	maxParticipants = 100
)

// maxAmount caps a single expense.
var maxAmount = decimal.RequireFromString("999999.99")

// Ledger owns all Person and Expense lifetimes. People are kept in
// insertion order for display; the sum of all balances stays at zero
// within the one-cent tolerance after every successful mutation.
type Ledger struct {
	mu sync.RWMutex

	autoCreate       bool
	strictDuplicates bool

	people   map[string]*Person
	order    []string
	expenses []*Expense
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithAutoCreate controls whether unknown payers and participants are
// created on first reference in an expense. Defaults to true; with
// auto-create off, unknown names fail with a LookupError.
func WithAutoCreate(enabled bool) Option {
	return func(l *Ledger) { l.autoCreate = enabled }
}

// WithStrictDuplicates makes AddPerson fail on an existing name instead of
// returning the existing person's id.
func WithStrictDuplicates() Option {
	return func(l *Ledger) { l.strictDuplicates = true }
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		autoCreate: true,
		people:     make(map[string]*Person),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddPerson registers a person under their normalized name and returns
// their id. Adding an existing name returns the existing id, unless the
// ledger was built with WithStrictDuplicates.
func (l *Ledger) AddPerson(name string) (uuid.UUID, error) {
	clean := NormalizeName(name)
	if err := validateName("name", clean); err != nil {
		return uuid.Nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.people[clean]; ok {
		if l.strictDuplicates {
			return uuid.Nil, &split.ValidationError{
				Field:        "name",
				Participants: []string{clean},
				Reason:       fmt.Sprintf("person %q already exists", clean),
			}
		}
		return existing.ID, nil
	}
	if len(l.people) >= maxPeople {
		return uuid.Nil, &split.ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("cannot add more people (max %d)", maxPeople),
		}
	}

	person := newPerson(clean)
	l.people[clean] = person
	l.order = append(l.order, clean)
	return person.ID, nil
}

// RemovePerson deletes a person. It refuses while the person holds a
// non-zero balance or appears in any expense.
func (l *Ledger) RemovePerson(name string) error {
	clean := NormalizeName(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	person, ok := l.people[clean]
	if !ok {
		return &LookupError{Entity: "person", Key: clean}
	}
	if !person.Balance().IsZero() {
		return &split.ValidationError{
			Field:        "name",
			Participants: []string{clean},
			Reason:       fmt.Sprintf("cannot remove %q with non-zero balance", clean),
		}
	}
	for _, e := range l.expenses {
		if e.Payer == clean {
			return &split.ValidationError{
				Field:        "name",
				Participants: []string{clean},
				Reason:       fmt.Sprintf("cannot remove %q: payer of an expense", clean),
			}
		}
		if _, involved := e.Shares[clean]; involved {
			return &split.ValidationError{
				Field:        "name",
				Participants: []string{clean},
				Reason:       fmt.Sprintf("cannot remove %q: participant in an expense", clean),
			}
		}
	}

	delete(l.people, clean)
	for i, n := range l.order {
		if n == clean {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddExpense records an expense: the strategy computes each participant's
// share, the payer's TotalPaid grows by the amount and every participant's
// TotalOwed grows by their share. The whole operation is atomic; any
// validation failure leaves the ledger untouched.
func (l *Ledger) AddExpense(payer string, amount decimal.Decimal, strategy split.Strategy, participants []string) (uuid.UUID, error) {
	if strategy == nil {
		return uuid.Nil, &split.ValidationError{Field: "strategy", Reason: "split strategy is required"}
	}
	if !amount.IsPositive() {
		return uuid.Nil, &split.ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	if amount.GreaterThan(maxAmount) {
		return uuid.Nil, &split.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("amount cannot exceed %s", maxAmount.StringFixed(2)),
		}
	}
	if len(participants) > maxParticipants {
		return uuid.Nil, &split.ValidationError{
			Field:  "participants",
			Reason: fmt.Sprintf("too many participants (max %d)", maxParticipants),
		}
	}

	payerClean := NormalizeName(payer)
	if err := validateName("payer", payerClean); err != nil {
		return uuid.Nil, err
	}
	cleanParticipants := make([]string, 0, len(participants))
	for _, p := range participants {
		clean := NormalizeName(p)
		if err := validateName("participants", clean); err != nil {
			return uuid.Nil, err
		}
		cleanParticipants = append(cleanParticipants, clean)
	}

	// Shares are computed before any state changes so a strategy failure
	// cannot leave a half-applied expense.
	shares, err := strategy.Shares(amount, cleanParticipants)
	if err != nil {
		return uuid.Nil, err
	}
	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share)
	}
	if sum.Sub(amount).Abs().GreaterThan(split.Tolerance) {
		// A percentage sum inside the strategy's tolerance can still
		// drift the share sum past one cent on a large amount, so this
		// stays a recoverable rejection, not an internal failure.
		return uuid.Nil, &split.ValidationError{
			Field: paramField(strategy.Kind()),
			Reason: fmt.Sprintf("%s produces shares summing to %s for amount %s (off by more than one cent)",
				strategy, sum.StringFixed(2), amount.StringFixed(2)),
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Resolve every name before creating or mutating anyone.
	names := append([]string{payerClean}, cleanParticipants...)
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := l.people[n]; !ok && !seen[n] {
			missing = append(missing, n)
			seen[n] = true
		}
	}
	if len(missing) > 0 {
		if !l.autoCreate {
			return uuid.Nil, &LookupError{Entity: "person", Key: missing[0]}
		}
		if len(l.people)+len(missing) > maxPeople {
			return uuid.Nil, &split.ValidationError{
				Field:  "participants",
				Reason: fmt.Sprintf("cannot add more people (max %d)", maxPeople),
			}
		}
		for _, n := range missing {
			l.people[n] = newPerson(n)
			l.order = append(l.order, n)
		}
	}

	expense := &Expense{
		ID:           uuid.New(),
		Payer:        payerClean,
		Amount:       amount,
		Participants: cleanParticipants,
		Strategy:     strategy,
		Shares:       shares,
		CreatedAt:    time.Now().Unix(),
	}

	l.people[payerClean].TotalPaid = l.people[payerClean].TotalPaid.Add(amount)
	for p, share := range shares {
		l.people[p].TotalOwed = l.people[p].TotalOwed.Add(share)
	}
	l.expenses = append(l.expenses, expense)

	if err := l.checkZeroSum(); err != nil {
		return uuid.Nil, err
	}
	return expense.ID, nil
}

// RemoveExpense reverses an expense exactly: the payer's TotalPaid and
// every participant's TotalOwed are decremented by what the expense added.
func (l *Ledger) RemoveExpense(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, e := range l.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &LookupError{Entity: "expense", Key: id.String()}
	}

	expense := l.expenses[idx]
	l.people[expense.Payer].TotalPaid = l.people[expense.Payer].TotalPaid.Sub(expense.Amount)
	for p, share := range expense.Shares {
		l.people[p].TotalOwed = l.people[p].TotalOwed.Sub(share)
	}
	l.expenses = append(l.expenses[:idx], l.expenses[idx+1:]...)

	return l.checkZeroSum()
}

// Balances returns every person's derived balance keyed by name.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make(map[string]decimal.Decimal, len(l.people))
	for name, person := range l.people {
		balances[name] = person.Balance()
	}
	return balances
}

// People returns copies of all people in insertion order.
func (l *Ledger) People() []Person {
	l.mu.RLock()
	defer l.mu.RUnlock()

	people := make([]Person, 0, len(l.order))
	for _, name := range l.order {
		people = append(people, *l.people[name])
	}
	return people
}

// Expenses returns copies of all expenses in the order they were added.
func (l *Ledger) Expenses() []Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()

	expenses := make([]Expense, 0, len(l.expenses))
	for _, e := range l.expenses {
		cp := *e
		cp.Participants = append([]string(nil), e.Participants...)
		cp.Shares = make(map[string]decimal.Decimal, len(e.Shares))
		for k, v := range e.Shares {
			cp.Shares[k] = v
		}
		expenses = append(expenses, cp)
	}
	return expenses
}

// paramField names the input that drives a strategy's shares.
func paramField(kind split.Kind) string {
	switch kind {
	case split.KindWeighted:
		return "weights"
	case split.KindPercentage:
		return "percentages"
	case split.KindExact:
		return "exact_amounts"
	default:
		return "participants"
	}
}

// checkZeroSum verifies the ledger-wide invariant that balances cancel out.
// Callers must hold the write lock.
func (l *Ledger) checkZeroSum() error {
	sum := decimal.Zero
	for _, person := range l.people {
		sum = sum.Add(person.Balance())
	}
	if sum.Abs().GreaterThan(split.Tolerance) {
		return &ConsistencyError{
			Reason: fmt.Sprintf("balances sum to %s, want 0", sum),
		}
	}
	return nil
}
