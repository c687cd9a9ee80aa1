package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/split"
)

// handler wraps the ledger service and exposes HTTP handlers.
type handler struct {
	svc *service.LedgerService
}

func newHandler(svc *service.LedgerService) *handler {
	return &handler{svc: svc}
}

type personRequest struct {
	Name string `json:"name"`
}

type personResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TotalPaid string `json:"total_paid"`
	TotalOwed string `json:"total_owed"`
	Balance   string `json:"balance"`
}

// expenseRequest carries one expense. Amounts are decimal strings so the
// wire format never loses precision to binary floats.
type expenseRequest struct {
	Payer        string            `json:"payer"`
	Amount       string            `json:"amount"`
	Strategy     string            `json:"strategy"`
	Participants []string          `json:"participants"`
	Weights      map[string]string `json:"weights,omitempty"`
	Percentages  map[string]string `json:"percentages,omitempty"`
	ExactAmounts map[string]string `json:"exact_amounts,omitempty"`
}

type expenseResponse struct {
	ID           string            `json:"id"`
	Payer        string            `json:"payer"`
	Amount       string            `json:"amount"`
	Strategy     string            `json:"strategy"`
	Participants []string          `json:"participants"`
	Shares       map[string]string `json:"shares"`
	Description  string            `json:"description"`
	CreatedAt    int64             `json:"created_at"`
}

type transactionResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (h *handler) addPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := h.svc.AddPerson(req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":   id.String(),
		"name": ledger.NormalizeName(req.Name),
	})
}

func (h *handler) listPeople(w http.ResponseWriter, r *http.Request) {
	people := h.svc.People()
	out := make([]personResponse, len(people))
	for i, p := range people {
		out[i] = personResponse{
			ID:        p.ID.String(),
			Name:      p.Name,
			TotalPaid: p.TotalPaid.StringFixed(2),
			TotalOwed: p.TotalOwed.StringFixed(2),
			Balance:   p.Balance().StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": out})
}

func (h *handler) removePerson(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.svc.RemovePerson(name); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	input, err := toExpenseInput(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := h.svc.AddExpense(input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (h *handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := h.svc.Expenses()
	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		shares := make(map[string]string, len(e.Shares))
		for name, share := range e.Shares {
			shares[name] = share.Round(2).StringFixed(2)
		}
		out[i] = expenseResponse{
			ID:           e.ID.String(),
			Payer:        e.Payer,
			Amount:       e.Amount.StringFixed(2),
			Strategy:     string(e.Strategy.Kind()),
			Participants: e.Participants,
			Shares:       shares,
			Description:  e.String(),
			CreatedAt:    e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

func (h *handler) removeExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := h.svc.RemoveExpense(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) balances(w http.ResponseWriter, r *http.Request) {
	balances := h.svc.Balances()
	out := make(map[string]string, len(balances))
	for name, balance := range balances {
		out[name] = balance.StringFixed(2)
	}
	writeJSON(w, http.StatusOK, map[string]any{"balances": out})
}

func (h *handler) settlements(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.svc.Settle()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]transactionResponse, len(transactions))
	for i, t := range transactions {
		out[i] = transactionResponse{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

// toExpenseInput parses the wire request into service types.
func toExpenseInput(req expenseRequest) (service.ExpenseInput, error) {
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return service.ExpenseInput{}, err
	}

	input := service.ExpenseInput{
		Payer:        req.Payer,
		Amount:       amount,
		Strategy:     split.Kind(req.Strategy),
		Participants: req.Participants,
	}
	if input.Weights, err = parseDecimalMap("weights", req.Weights); err != nil {
		return service.ExpenseInput{}, err
	}
	if input.Percentages, err = parseDecimalMap("percentages", req.Percentages); err != nil {
		return service.ExpenseInput{}, err
	}
	if input.ExactAmounts, err = parseDecimalMap("exact_amounts", req.ExactAmounts); err != nil {
		return service.ExpenseInput{}, err
	}
	return input, nil
}

func parseDecimalMap(field string, raw map[string]string) (map[string]decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[string]decimal.Decimal, len(raw))
	for name, value := range raw {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, &split.ValidationError{
				Field:        field,
				Participants: []string{name},
				Reason:       "invalid decimal value for " + name,
			}
		}
		out[name] = d
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the core error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		verr *split.ValidationError
		lerr *ledger.LookupError
		cerr *ledger.ConsistencyError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &lerr):
		writeError(w, http.StatusNotFound, lerr.Error())
	case errors.As(err, &cerr):
		writeError(w, http.StatusInternalServerError, cerr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
