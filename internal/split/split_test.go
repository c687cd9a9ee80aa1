package split

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decMap(pairs map[string]string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(pairs))
	for k, v := range pairs {
		m[k] = dec(v)
	}
	return m
}

// assertShareSum checks that the shares cover exactly the participants and
// sum to the amount within the one-cent tolerance.
func assertShareSum(t *testing.T, shares map[string]decimal.Decimal, participants []string, amount decimal.Decimal) {
	t.Helper()
	if len(shares) != len(participants) {
		t.Fatalf("got %d shares, want %d", len(shares), len(participants))
	}
	sum := decimal.Zero
	for _, p := range participants {
		share, ok := shares[p]
		if !ok {
			t.Fatalf("no share for participant %q", p)
		}
		sum = sum.Add(share)
	}
	if sum.Sub(amount).Abs().GreaterThan(Tolerance) {
		t.Errorf("shares sum to %s, want %s", sum, amount)
	}
}

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		wantErr      bool
		wantShare    string
	}{
		{
			name:         "three way split",
			amount:       "120",
			participants: []string{"alice", "bob", "charlie"},
			wantShare:    "40",
		},
		{
			name:         "single participant gets whole amount",
			amount:       "19.99",
			participants: []string{"alice"},
			wantShare:    "19.99",
		},
		{
			name:         "non-terminating division keeps precision",
			amount:       "100",
			participants: []string{"alice", "bob", "charlie"},
			wantShare:    "", // checked via sum only
		},
		{
			name:         "zero amount rejected",
			amount:       "0",
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "negative amount rejected",
			amount:       "-5",
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "no participants rejected",
			amount:       "10",
			participants: nil,
			wantErr:      true,
		},
		{
			name:         "duplicate participants rejected",
			amount:       "10",
			participants: []string{"alice", "alice"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Equal{}.Shares(dec(tt.amount), tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Shares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error %v is not a *ValidationError", err)
				}
				return
			}
			assertShareSum(t, shares, tt.participants, dec(tt.amount))
			if tt.wantShare != "" {
				for _, p := range tt.participants {
					if !shares[p].Equal(dec(tt.wantShare)) {
						t.Errorf("share for %s = %s, want %s", p, shares[p], tt.wantShare)
					}
				}
			}
		})
	}
}

func TestWeightedShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		weights      map[string]string
		wantErr      bool
		want         map[string]string
	}{
		{
			name:         "two to one to one",
			amount:       "30",
			participants: []string{"alice", "bob", "charlie"},
			weights:      map[string]string{"alice": "2", "bob": "1", "charlie": "1"},
			want:         map[string]string{"alice": "15", "bob": "7.5", "charlie": "7.5"},
		},
		{
			name:         "fractional weights",
			amount:       "10",
			participants: []string{"alice", "bob"},
			weights:      map[string]string{"alice": "0.5", "bob": "1.5"},
			want:         map[string]string{"alice": "2.5", "bob": "7.5"},
		},
		{
			name:         "weight keys are normalized",
			amount:       "20",
			participants: []string{"alice", "bob"},
			weights:      map[string]string{" Alice ": "1", "BOB": "3"},
			want:         map[string]string{"alice": "5", "bob": "15"},
		},
		{
			name:         "missing weight rejected",
			amount:       "30",
			participants: []string{"alice", "bob"},
			weights:      map[string]string{"alice": "1"},
			wantErr:      true,
		},
		{
			name:         "extra weight rejected",
			amount:       "30",
			participants: []string{"alice"},
			weights:      map[string]string{"alice": "1", "bob": "1"},
			wantErr:      true,
		},
		{
			name:         "zero weight rejected",
			amount:       "30",
			participants: []string{"alice", "bob"},
			weights:      map[string]string{"alice": "0", "bob": "1"},
			wantErr:      true,
		},
		{
			name:         "negative weight rejected",
			amount:       "30",
			participants: []string{"alice", "bob"},
			weights:      map[string]string{"alice": "-1", "bob": "2"},
			wantErr:      true,
		},
		{
			name:         "empty weights rejected",
			amount:       "30",
			participants: []string{"alice"},
			weights:      map[string]string{},
			wantErr:      true,
		},
		{
			name:         "colliding weight keys rejected",
			amount:       "30",
			participants: []string{"alice", "bob"},
			weights:      map[string]string{"Alice": "1", "alice": "2", "bob": "1"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := Weighted{Weights: decMap(tt.weights)}
			shares, err := strategy.Shares(dec(tt.amount), tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Shares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assertShareSum(t, shares, tt.participants, dec(tt.amount))
			for p, want := range tt.want {
				if !shares[p].Equal(dec(want)) {
					t.Errorf("share for %s = %s, want %s", p, shares[p], want)
				}
			}
		})
	}
}

func TestPercentageShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		percentages  map[string]string
		wantErr      bool
		want         map[string]string
	}{
		{
			name:         "sums to exactly 100",
			amount:       "200",
			participants: []string{"alice", "bob"},
			percentages:  map[string]string{"alice": "60", "bob": "40"},
			want:         map[string]string{"alice": "120", "bob": "80"},
		},
		{
			name:         "sum of 99.99 rejected",
			amount:       "100",
			participants: []string{"alice", "bob"},
			percentages:  map[string]string{"alice": "59.99", "bob": "40"},
			wantErr:      true,
		},
		{
			name:         "sum of 100.005 accepted",
			amount:       "100",
			participants: []string{"alice", "bob"},
			percentages:  map[string]string{"alice": "60.005", "bob": "40"},
		},
		{
			name:         "sum of 100.02 rejected",
			amount:       "100",
			participants: []string{"alice", "bob"},
			percentages:  map[string]string{"alice": "60.02", "bob": "40"},
			wantErr:      true,
		},
		{
			name:         "missing percentage rejected",
			amount:       "100",
			participants: []string{"alice", "bob"},
			percentages:  map[string]string{"alice": "100"},
			wantErr:      true,
		},
		{
			name:         "single percentage over 100 rejected",
			amount:       "100",
			participants: []string{"alice"},
			percentages:  map[string]string{"alice": "101"},
			wantErr:      true,
		},
		{
			name:         "zero percentage rejected",
			amount:       "100",
			participants: []string{"alice", "bob"},
			percentages:  map[string]string{"alice": "0", "bob": "100"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := Percentage{Percentages: decMap(tt.percentages)}
			shares, err := strategy.Shares(dec(tt.amount), tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Shares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assertShareSum(t, shares, tt.participants, dec(tt.amount))
			for p, want := range tt.want {
				if !shares[p].Equal(dec(want)) {
					t.Errorf("share for %s = %s, want %s", p, shares[p], want)
				}
			}
		})
	}
}

func TestExactShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		amounts      map[string]string
		wantErr      bool
		want         map[string]string
	}{
		{
			name:         "amounts sum exactly",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "30", "bob": "20"},
			want:         map[string]string{"alice": "30", "bob": "20"},
		},
		{
			name:         "one cent short absorbed by first participant",
			amount:       "50",
			participants: []string{"bob", "alice"},
			amounts:      map[string]string{"alice": "29.99", "bob": "20"},
			// bob is first in call order and absorbs the missing cent.
			want: map[string]string{"bob": "20.01", "alice": "29.99"},
		},
		{
			name:         "one cent over absorbed by first participant",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "30.01", "bob": "20"},
			want:         map[string]string{"alice": "30", "bob": "20"},
		},
		{
			name:         "two cents short rejected",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "29.98", "bob": "20"},
			wantErr:      true,
		},
		{
			name:         "missing amount rejected",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "50"},
			wantErr:      true,
		},
		{
			name:         "negative amount rejected",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "60", "bob": "-10"},
			wantErr:      true,
		},
		{
			name:         "colliding amount keys rejected",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "30", " ALICE ": "10", "bob": "20"},
			wantErr:      true,
		},
		{
			name:         "zero share allowed",
			amount:       "50",
			participants: []string{"alice", "bob"},
			amounts:      map[string]string{"alice": "50", "bob": "0"},
			want:         map[string]string{"alice": "50", "bob": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := Exact{Amounts: decMap(tt.amounts)}
			shares, err := strategy.Shares(dec(tt.amount), tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Shares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			// Exact shares must sum precisely, not just within tolerance.
			sum := decimal.Zero
			for _, p := range tt.participants {
				sum = sum.Add(shares[p])
			}
			if !sum.Equal(dec(tt.amount)) {
				t.Errorf("shares sum to %s, want exactly %s", sum, tt.amount)
			}
			for p, want := range tt.want {
				if !shares[p].Equal(dec(want)) {
					t.Errorf("share for %s = %s, want %s", p, shares[p], want)
				}
			}
		})
	}
}

func TestCollidingKeysNameTheDuplicate(t *testing.T) {
	strategy := Percentage{Percentages: decMap(map[string]string{"Bob": "50", "bob ": "50"})}
	_, err := strategy.Shares(dec("10"), []string{"alice", "bob"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}
	if verr.Field != "percentages" {
		t.Errorf("Field = %q, want %q", verr.Field, "percentages")
	}
	if len(verr.Participants) != 1 || verr.Participants[0] != "bob" {
		t.Errorf("Participants = %v, want [bob]", verr.Participants)
	}
}

func TestValidationErrorIdentifiesParticipants(t *testing.T) {
	strategy := Weighted{Weights: decMap(map[string]string{"alice": "1"})}
	_, err := strategy.Shares(dec("10"), []string{"alice", "bob", "charlie"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}
	if verr.Field != "weights" {
		t.Errorf("Field = %q, want %q", verr.Field, "weights")
	}
	if len(verr.Participants) != 2 {
		t.Fatalf("Participants = %v, want bob and charlie", verr.Participants)
	}
}
