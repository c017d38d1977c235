package ledger

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
		want     string // exact decimal string of the parsed value
	}{
		{name: "integer", amount: "100", currency: CNY, want: "100"},
		{name: "fractional", amount: "100.25", currency: USD, want: "100.25"},
		{name: "negative", amount: "-3.50", currency: EUR, want: "-3.5"},
		{name: "zero", amount: "0.0", currency: CNY, want: "0"},
		{name: "garbage", amount: "ten", currency: CNY, wantErr: ErrInvalidMoneyFormat},
		{name: "empty", amount: "", currency: CNY, wantErr: ErrInvalidMoneyFormat},
		{name: "bad currency", amount: "10", currency: "JPY", wantErr: ErrInvalidMoneyFormat},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseMoney(tc.amount, tc.currency)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ParseMoney(%q, %q) error = %v, want %v", tc.amount, tc.currency, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q, %q) error = %v", tc.amount, tc.currency, err)
			}
			if got := m.Amount(); got != tc.want {
				t.Errorf("Amount() = %q, want %q", got, tc.want)
			}
			if m.Currency() != tc.currency {
				t.Errorf("Currency() = %q, want %q", m.Currency(), tc.currency)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := M(100, CNY)
	b := M(30, CNY)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := sum.Amount(); got != "130" {
		t.Errorf("Add() = %s, want 130", got)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if got := diff.Amount(); got != "70" {
		t.Errorf("Sub() = %s, want 70", got)
	}

	if got := b.Neg().Amount(); got != "-30" {
		t.Errorf("Neg() = %s, want -30", got)
	}
	if !b.Neg().Neg().Equal(b) {
		t.Errorf("Neg().Neg() should round-trip")
	}
}

// Exactness: amounts that are classic float traps must come out exact.
func TestMoneyExactDecimal(t *testing.T) {
	a, err := ParseMoney("0.1", USD)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseMoney("0.2", USD)
	if err != nil {
		t.Fatal(err)
	}
	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := sum.Amount(); got != "0.3" {
		t.Errorf("0.1 + 0.2 = %s, want 0.3 exactly", got)
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	a := M(10, CNY)
	b := M(5, USD)

	if _, err := a.Add(b); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add() error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := a.Sub(b); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Sub() error = %v, want ErrCurrencyMismatch", err)
	}
	// Purity: the failed operations left both operands untouched.
	if got := a.Amount(); got != "10" {
		t.Errorf("left operand changed: %s", got)
	}
	if got := b.Amount(); got != "5" {
		t.Errorf("right operand changed: %s", got)
	}
	if a.Equal(b) {
		t.Errorf("amounts in different currencies must never be equal")
	}
}

func TestMoneyEqual(t *testing.T) {
	a, _ := ParseMoney("100.00", CNY)
	b, _ := ParseMoney("100", CNY)
	if !a.Equal(b) {
		t.Errorf("100.00 and 100 should be equal")
	}
	if a.Equal(M(100, USD)) {
		t.Errorf("same amount in another currency should not be equal")
	}
}

func TestZero(t *testing.T) {
	z := Zero(EUR)
	if !z.IsZero() {
		t.Errorf("Zero() should be zero")
	}
	if z.Currency() != EUR {
		t.Errorf("Zero(EUR).Currency() = %q", z.Currency())
	}
}
