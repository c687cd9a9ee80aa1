// Package metrics exposes the prometheus collectors for the ledger
// service. Collectors register on the default registry, so the /metrics
// handler picks them up without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesAdded counts successfully recorded expenses by strategy.
	ExpensesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitledger_expenses_added_total",
		Help: "Number of expenses recorded, labeled by split strategy.",
	}, []string{"strategy"})

	// ValidationFailures counts operations rejected before mutation.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_validation_failures_total",
		Help: "Number of requests rejected by validation.",
	})

	// SettlementRuns counts settlement computations.
	SettlementRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_settlement_runs_total",
		Help: "Number of settlement computations performed.",
	})

	// People tracks the number of people currently in the ledger.
	People = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "splitledger_people",
		Help: "Number of people in the ledger.",
	})
)
