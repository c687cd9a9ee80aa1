package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/split"
)

// Transaction is one settling payment: From pays To the Amount.
type Transaction struct {
	From   string
	To     string
	Amount decimal.Decimal
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s -> %s: %s", t.From, t.To, t.Amount.StringFixed(2))
}

// party tracks one side's remaining balance during settlement.
type party struct {
	name      string
	remaining decimal.Decimal // always positive
}

// Settle computes the transactions that drive every balance to zero. It is
// read-only and repeatable: calling it twice without mutation yields the
// same list.
//
// The matcher is greedy: the largest remaining creditor is paired with the
// largest remaining debtor, ties broken by insertion order, until both
// sides are exhausted. This emits at most len(people)-1 transactions;
// amounts are rounded to display precision only at emission.
func (l *Ledger) Settle() ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.checkZeroSum(); err != nil {
		return nil, err
	}

	var creditors, debtors []party
	for _, name := range l.order {
		balance := l.people[name].Balance()
		switch {
		case balance.GreaterThan(split.Tolerance):
			creditors = append(creditors, party{name: name, remaining: balance})
		case balance.Neg().GreaterThan(split.Tolerance):
			debtors = append(debtors, party{name: name, remaining: balance.Neg()})
		}
	}

	// Zero-sum holds, so one side cannot run dry while the other still
	// carries a significant balance.
	if (len(creditors) == 0) != (len(debtors) == 0) {
		return nil, &ConsistencyError{Reason: "unmatched balance cannot be settled"}
	}

	var transactions []Transaction
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)
		creditor := &creditors[ci]
		debtor := &debtors[di]

		transfer := decimal.Min(creditor.remaining, debtor.remaining)
		transactions = append(transactions, Transaction{
			From:   debtor.name,
			To:     creditor.name,
			Amount: transfer.Round(2),
		})

		creditor.remaining = creditor.remaining.Sub(transfer)
		debtor.remaining = debtor.remaining.Sub(transfer)

		if !creditor.remaining.GreaterThan(split.Tolerance) {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if !debtor.remaining.GreaterThan(split.Tolerance) {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}

	if len(creditors) > 0 || len(debtors) > 0 {
		return nil, &ConsistencyError{Reason: "settlement left balances unresolved"}
	}
	return transactions, nil
}

// largest returns the index of the party with the biggest remaining
// balance. Strict comparison keeps the earliest-inserted party on ties.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].remaining.GreaterThan(parties[best].remaining) {
			best = i
		}
	}
	return best
}
