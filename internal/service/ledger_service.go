// Package service wraps the core ledger with logging, metrics and
// request-shaped inputs for the HTTP API and the CLI.
package service

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/split"
)

// LedgerService is the application-facing surface over a Ledger.
type LedgerService struct {
	ledger *ledger.Ledger
}

// New creates a LedgerService around the given ledger.
func New(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// ExpenseInput carries one expense request. Exactly one parameter map is
// consulted, matching Strategy; the others are ignored.
type ExpenseInput struct {
	Payer        string
	Amount       decimal.Decimal
	Strategy     split.Kind
	Participants []string
	Weights      map[string]decimal.Decimal
	Percentages  map[string]decimal.Decimal
	ExactAmounts map[string]decimal.Decimal
}

// strategyFor builds the Strategy variant for an input.
func strategyFor(in ExpenseInput) (split.Strategy, error) {
	switch in.Strategy {
	case split.KindEqual:
		return split.Equal{}, nil
	case split.KindWeighted:
		return split.Weighted{Weights: in.Weights}, nil
	case split.KindPercentage:
		return split.Percentage{Percentages: in.Percentages}, nil
	case split.KindExact:
		return split.Exact{Amounts: in.ExactAmounts}, nil
	default:
		return nil, &split.ValidationError{
			Field:  "strategy",
			Reason: "split method not valid (use equal, weighted, percentage or exact)",
		}
	}
}

// AddPerson registers a person and returns their id.
func (s *LedgerService) AddPerson(name string) (uuid.UUID, error) {
	id, err := s.ledger.AddPerson(name)
	if err != nil {
		slog.Warn("AddPerson rejected", "name", name, "error", err)
		countValidation(err)
		return uuid.Nil, err
	}
	metrics.People.Set(float64(len(s.ledger.People())))
	slog.Info("Person added", "name", ledger.NormalizeName(name), "id", id)
	return id, nil
}

// RemovePerson deletes a person with no balance and no expenses.
func (s *LedgerService) RemovePerson(name string) error {
	if err := s.ledger.RemovePerson(name); err != nil {
		slog.Warn("RemovePerson rejected", "name", name, "error", err)
		countValidation(err)
		return err
	}
	metrics.People.Set(float64(len(s.ledger.People())))
	slog.Info("Person removed", "name", ledger.NormalizeName(name))
	return nil
}

// AddExpense records one expense and returns its id.
func (s *LedgerService) AddExpense(in ExpenseInput) (uuid.UUID, error) {
	strategy, err := strategyFor(in)
	if err != nil {
		countValidation(err)
		return uuid.Nil, err
	}

	id, err := s.ledger.AddExpense(in.Payer, in.Amount, strategy, in.Participants)
	if err != nil {
		slog.Warn("AddExpense rejected",
			"payer", in.Payer,
			"amount", in.Amount,
			"strategy", in.Strategy,
			"error", err,
		)
		countValidation(err)
		return uuid.Nil, err
	}

	metrics.ExpensesAdded.WithLabelValues(string(in.Strategy)).Inc()
	metrics.People.Set(float64(len(s.ledger.People())))
	slog.Info("Expense added",
		"id", id,
		"payer", ledger.NormalizeName(in.Payer),
		"amount", in.Amount,
		"strategy", in.Strategy,
		"participants", len(in.Participants),
	)
	return id, nil
}

// RemoveExpense reverses and deletes an expense by id.
func (s *LedgerService) RemoveExpense(id uuid.UUID) error {
	if err := s.ledger.RemoveExpense(id); err != nil {
		slog.Warn("RemoveExpense rejected", "id", id, "error", err)
		return err
	}
	slog.Info("Expense removed", "id", id)
	return nil
}

// Balances returns the current net balance per person.
func (s *LedgerService) Balances() map[string]decimal.Decimal {
	return s.ledger.Balances()
}

// People returns all people in insertion order.
func (s *LedgerService) People() []ledger.Person {
	return s.ledger.People()
}

// Expenses returns all recorded expenses.
func (s *LedgerService) Expenses() []ledger.Expense {
	return s.ledger.Expenses()
}

// Settle computes the settling transactions for the current balances.
func (s *LedgerService) Settle() ([]ledger.Transaction, error) {
	transactions, err := s.ledger.Settle()
	if err != nil {
		slog.Error("Settle failed", "error", err)
		return nil, err
	}
	metrics.SettlementRuns.Inc()
	slog.Info("Settlement computed", "transactions", len(transactions))
	return transactions, nil
}

func countValidation(err error) {
	var verr *split.ValidationError
	if errors.As(err, &verr) {
		metrics.ValidationFailures.Inc()
	}
}
