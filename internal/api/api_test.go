package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/service"
)

func newTestServer(t *testing.T, opts ...ledger.Option) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewRouter(service.New(ledger.New(opts...))))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAddPersonEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/people", map[string]string{"name": " Alice "})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "alice", body["name"])
	assert.NotEmpty(t, body["id"])

	// Bad name is a validation error.
	resp = postJSON(t, server.URL+"/api/v1/people", map[string]string{"name": "al!ce"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestExpenseAndBalancesFlow(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/expenses", map[string]any{
		"payer":        "alice",
		"amount":       "120",
		"strategy":     "equal",
		"participants": []string{"alice", "bob", "charlie"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/v1/balances")
	require.NoError(t, err)
	var balances struct {
		Balances map[string]string `json:"balances"`
	}
	decodeBody(t, resp, &balances)
	assert.Equal(t, "80.00", balances.Balances["alice"])
	assert.Equal(t, "-40.00", balances.Balances["bob"])
	assert.Equal(t, "-40.00", balances.Balances["charlie"])

	resp, err = http.Get(server.URL + "/api/v1/settlements")
	require.NoError(t, err)
	var settlements struct {
		Transactions []struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Amount string `json:"amount"`
		} `json:"transactions"`
	}
	decodeBody(t, resp, &settlements)
	require.Len(t, settlements.Transactions, 2)
	for _, tx := range settlements.Transactions {
		assert.Equal(t, "alice", tx.To)
		assert.Equal(t, "40.00", tx.Amount)
	}
}

func TestExpenseValidationErrors(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "unknown strategy",
			body: map[string]any{
				"payer": "alice", "amount": "10",
				"strategy": "vibes", "participants": []string{"alice"},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "bad amount",
			body: map[string]any{
				"payer": "alice", "amount": "ten",
				"strategy": "equal", "participants": []string{"alice"},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "percentages off by a cent",
			body: map[string]any{
				"payer": "alice", "amount": "100",
				"strategy": "percentage", "participants": []string{"alice", "bob"},
				"percentages": map[string]string{"alice": "59.99", "bob": "40"},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "bad weight value",
			body: map[string]any{
				"payer": "alice", "amount": "10",
				"strategy": "weighted", "participants": []string{"alice"},
				"weights": map[string]string{"alice": "heavy"},
			},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/v1/expenses", tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestUnknownPersonWithoutAutoCreate(t *testing.T) {
	server := newTestServer(t, ledger.WithAutoCreate(false))

	resp := postJSON(t, server.URL+"/api/v1/expenses", map[string]any{
		"payer":        "alice",
		"amount":       "10",
		"strategy":     "equal",
		"participants": []string{"alice"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveExpenseEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/expenses", map[string]any{
		"payer":        "alice",
		"amount":       "30",
		"strategy":     "equal",
		"participants": []string{"alice", "bob"},
	})
	var created map[string]string
	decodeBody(t, resp, &created)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/expenses/"+created["id"], nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	// Deleting again is a lookup failure.
	again, err := http.DefaultClient.Do(req.Clone(req.Context()))
	require.NoError(t, err)
	again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestListPeopleAndExpenses(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/expenses", map[string]any{
		"payer":        "alice",
		"amount":       "42",
		"strategy":     "equal",
		"participants": []string{"bob", "carol"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/v1/people")
	require.NoError(t, err)
	var people struct {
		People []struct {
			Name    string `json:"name"`
			Balance string `json:"balance"`
		} `json:"people"`
	}
	decodeBody(t, resp, &people)
	require.Len(t, people.People, 3)
	assert.Equal(t, "alice", people.People[0].Name, "payer was referenced first")
	assert.Equal(t, "42.00", people.People[0].Balance)

	resp, err = http.Get(server.URL + "/api/v1/expenses")
	require.NoError(t, err)
	var expenses struct {
		Expenses []struct {
			Description string            `json:"description"`
			Shares      map[string]string `json:"shares"`
		} `json:"expenses"`
	}
	decodeBody(t, resp, &expenses)
	require.Len(t, expenses.Expenses, 1)
	assert.Equal(t, "42.00 paid by alice due for bob and carol with equal split",
		expenses.Expenses[0].Description)
	assert.Equal(t, "21.00", expenses.Expenses[0].Shares["bob"])
}
