// Package money represents monetary amounts as int64 cents.
//
// All ledger arithmetic (totals, the 2.5% zakat rate, remaining balances)
// happens in integer cents so summation order never affects the result and
// no floating-point rounding leaks into persisted or reported figures.
// Amounts cross the API boundary as decimal strings and are parsed fail-closed.
package money

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	dErrors "mizan/pkg/domain-errors"
)

// Amount is a monetary value in whole cents. Amounts in this system are
// never negative except for derived figures (remaining zakat may go
// negative on overpayment), which is why the type is signed.
type Amount struct {
	Cents int64
}

// FromCents wraps raw cents.
func FromCents(c int64) Amount { return Amount{Cents: c} }

// Add returns m + other.
func (m Amount) Add(other Amount) Amount { return Amount{Cents: m.Cents + other.Cents} }

// Sub returns m - other. The result may be negative.
func (m Amount) Sub(other Amount) Amount { return Amount{Cents: m.Cents - other.Cents} }

// IsNegative reports whether the amount is below zero.
func (m Amount) IsNegative() bool { return m.Cents < 0 }

// String renders the amount with exactly two decimals, e.g. "12000.00" or "-1.05".
func (m Amount) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return sign + strconv.FormatInt(c/100, 10) + "." + pad2(c%100)
}

func pad2(c int64) string {
	if c < 10 {
		return "0" + strconv.FormatInt(c, 10)
	}
	return strconv.FormatInt(c, 10)
}

// MarshalText renders the amount as its decimal string, so JSON carries
// "12000.00" rather than a float.
func (m Amount) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a decimal string with the same strict rules as
// Parse, except that a leading minus is accepted so derived figures
// (a negative remaining balance) survive a marshal round-trip.
func (m *Amount) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	if neg {
		parsed.Cents = -parsed.Cents
	}
	*m = parsed
	return nil
}

// maxSafeCents guards the *100 conversion against int64 overflow.
const maxSafeCents = (1<<63 - 1) / 100

// Parse converts a decimal string to a non-negative Amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// at most three decimal places; a third decimal rounds half-up. Empty
// strings, signs (including "+"), non-numeric characters, more than three
// decimals, and overflowing values are rejected, so malformed input never
// reaches a store.
//
// Examples:
//
//	Parse("12.34")  -> 1234 cents
//	Parse("12.344") -> 1234 cents (rounds down)
//	Parse("12.345") -> 1235 cents (rounds up)
//	Parse("0")      -> 0 cents
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount must be a non-negative decimal")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount must be a valid decimal")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Amount{}, dErrors.New(dErrors.CodeValidation, "amount must be a valid decimal")
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Amount{}, dErrors.New(dErrors.CodeValidation, "amount must be a valid decimal")
		}
	}
	if len(fracPart) > 3 {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount must have at most three decimal places")
	}
	if s == "." {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount must be a valid decimal")
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv > maxSafeCents {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount is out of range")
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv * 100
	if fracCents > math.MaxInt64-cents {
		return Amount{}, dErrors.New(dErrors.CodeValidation, "amount is out of range")
	}
	return Amount{Cents: cents + fracCents}, nil
}

// Sum adds a slice of amounts. The empty slice sums to zero.
func Sum(amounts []Amount) Amount {
	var total int64
	for _, a := range amounts {
		total += a.Cents
	}
	return Amount{Cents: total}
}

// ZakatDue applies the flat 2.5% zakat rate to a total, rounding half-up to
// the cent. There is no minimum-threshold exemption.
func ZakatDue(total Amount) Amount {
	// total * 25 / 1000 with half-up rounding; totals are non-negative.
	return Amount{Cents: (total.Cents*25 + 500) / 1000}
}
