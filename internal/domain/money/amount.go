// Package money provides the decimal Amount used for totals and shares.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Places is the number of fractional digits kept for emitted amounts.
const Places = 2

// ErrInvalidAmount is returned when text cannot be parsed as a number.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a monetary value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{} //nolint:gochecknoglobals // immutable value

// New converts a float into an Amount using the shortest decimal
// representation of f.
func New(f float64) Amount { return Amount{d: decimal.NewFromFloat(f)} }

// NewRounded rounds the exact binary value of f to two fractional digits,
// half away from zero. f must be finite.
func NewRounded(f float64) Amount {
	return Amount{d: decimal.NewFromFloatWithExponent(f, -Places)}
}

// FromDecimal wraps d.
func FromDecimal(d decimal.Decimal) Amount { return Amount{d: d} }

// Parse reads an amount from user text such as "100", " 12.5 " or "1e2".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Round rounds to two fractional digits, half away from zero.
func (a Amount) Round() Amount { return Amount{d: a.d.Round(Places)} }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Cmp returns -1, 0 or +1 comparing a with b.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// Equal reports whether a and b are numerically equal; 1.5 equals 1.50.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// IsPositive reports a > 0.
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

// IsNegative reports a < 0.
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// IsZero reports a == 0.
func (a Amount) IsZero() bool { return a.d.IsZero() }

// Abs returns |a|.
func (a Amount) Abs() Amount { return Amount{d: a.d.Abs()} }

// Float64 returns the nearest float64.
func (a Amount) Float64() float64 { return a.d.InexactFloat64() }

// Decimal exposes the underlying decimal.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String returns the amount at full precision, e.g. "20.01" or "100".
func (a Amount) String() string { return a.d.String() }

// Fixed returns the amount with exactly two fractional digits.
func (a Amount) Fixed() string { return a.d.StringFixed(Places) }

// MarshalJSON writes a bare number literal.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts numbers and quoted numbers.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	a.d = d
	return nil
}

// MarshalYAML writes a plain numeric scalar.
func (a Amount) MarshalYAML() (interface{}, error) {
	s := a.d.String()
	tag := "!!int"
	if strings.ContainsAny(s, ".eE") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}, nil
}

// UnmarshalYAML reads a numeric scalar.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: not a scalar at line %d", ErrInvalidAmount, node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, node.Value)
	}
	a.d = d
	return nil
}

// Sum adds all amounts.
func Sum(amounts []Amount) Amount {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.d)
	}
	return Amount{d: total}
}
