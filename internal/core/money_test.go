package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "dot separator", input: "12.34", wantCents: 1234},
		{name: "comma separator", input: "12,34", wantCents: 1234},
		{name: "integer amount", input: "45", wantCents: 4500},
		{name: "single fractional digit", input: "0.5", wantCents: 50},
		{name: "rounds third decimal down", input: "12.344", wantCents: 1234},
		{name: "rounds third decimal up", input: "12.345", wantCents: 1235},
		{name: "leading whitespace", input: "  3.10", wantCents: 310},
		{name: "empty string", input: "", wantErr: true},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative rejected", input: "-5.00", wantErr: true},
		{name: "explicit plus rejected", input: "+5.00", wantErr: true},
		{name: "two dots rejected", input: "1.2.3", wantErr: true},
		{name: "letters rejected", input: "12a.50", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseMoney(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) error = %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 1234, want: "12.34"},
		{cents: 5, want: "0.05"},
		{cents: 100, want: "1.00"},
		{cents: -250, want: "-2.50"},
		{cents: 0, want: "0.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoney_DecimalRoundTrip(t *testing.T) {
	m := Money{Cents: 1234}
	if got := m.Decimal().String(); got != "12.34" {
		t.Errorf("Decimal() = %s, want 12.34", got)
	}
	if back := MoneyFromDecimal(m.Decimal()); back != m {
		t.Errorf("MoneyFromDecimal(Decimal()) = %+v, want %+v", back, m)
	}
}

func TestMoneyFromDecimal_Rounding(t *testing.T) {
	d := decimal.RequireFromString("33.335")
	if got := MoneyFromDecimal(d).Cents; got != 3334 {
		t.Errorf("MoneyFromDecimal(33.335) = %d cents, want 3334", got)
	}
}

func TestStatistics_Balance(t *testing.T) {
	s := Statistics{TotalIncome: Money{Cents: 50000}, TotalExpenses: Money{Cents: 17500}}
	if got := s.Balance().Cents; got != 32500 {
		t.Errorf("Balance() = %d, want 32500", got)
	}

	s = Statistics{TotalIncome: Money{Cents: 1000}, TotalExpenses: Money{Cents: 2500}}
	if got := s.Balance().Cents; got != -1500 {
		t.Errorf("Balance() = %d, want -1500 (negative balance allowed)", got)
	}
}
