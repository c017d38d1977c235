package ledger

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currencies the ledger accepts. Balances and transaction values are always
// tagged with one of these.
const (
	CNY = "CNY"
	USD = "USD"
	EUR = "EUR"
)

var currencies = []string{CNY, USD, EUR}

// ValidateCurrency reports whether cur is one of the supported currencies.
func ValidateCurrency(cur string) error {
	for _, c := range currencies {
		if c == cur {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported currency %q", ErrInvalidMoneyFormat, cur)
}

// Money represents an exact monetary value tagged with a currency.
//
// It is an immutable value type: operations return new values and never
// modify their operands. Arithmetic is exact decimal, never binary float.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// M is a convenient factory for Money values.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money { return Money{value: decimal.Zero, cur: currency} }

// ParseMoney parses an exact decimal string into a Money of the given
// currency. It fails with ErrInvalidMoneyFormat on unparsable text or an
// unsupported currency.
func ParseMoney(amount, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoneyFormat, amount)
	}
	return Money{value: value, cur: currency}, nil
}

// currency returns the full currency definition for formatting.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// Amount returns the exact decimal string representation of the amount,
// the form used at every persistence and interchange boundary.
func (m Money) Amount() string { return m.value.String() }

// Currency returns the money's currency code.
func (m Money) Currency() string { return m.cur }

// String returns the display representation of the money value, formatted
// with the currency's own grouping and symbol rules.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }

// Neg returns the negation of m in the same currency.
func (m Money) Neg() Money { return Money{value: m.value.Neg(), cur: m.cur} }

// Equal reports whether two money values have the same amount and the same
// currency. Amounts in different currencies are never equal.
func (m Money) Equal(n Money) bool { return m.cur == n.cur && m.value.Equal(n.value) }

// Add returns m + n. It fails with ErrCurrencyMismatch when the operands
// carry different currencies; neither operand is modified.
func (m Money) Add(n Money) (Money, error) {
	if m.cur != n.cur {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.cur, n.cur)
	}
	return Money{value: m.value.Add(n.value), cur: m.cur}, nil
}

// Sub returns m - n. It fails with ErrCurrencyMismatch when the operands
// carry different currencies; neither operand is modified.
func (m Money) Sub(n Money) (Money, error) {
	if m.cur != n.cur {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.cur, n.cur)
	}
	return Money{value: m.value.Sub(n.value), cur: m.cur}, nil
}

// SignedString returns the display representation with an explicit sign,
// and "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
