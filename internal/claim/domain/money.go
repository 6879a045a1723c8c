package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point currency amount in minor units (cents). Amounts are
// parsed and rendered with exactly two decimal places and never pass through
// float64, so reconciliation checks compare exact values.
type Money int64

// ParseMoney parses a decimal string such as "150.00" or "-3.5" into minor
// units. More than two fraction digits is an error.
func ParseMoney(raw string) (Money, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	// Only digits may remain after the sign and dot are split off;
	// strconv.ParseInt alone would let an embedded sign through.
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", raw)
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}

	value := units*100 + cents
	if negative {
		value = -value
	}
	return Money(value), nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MulUnits multiplies the amount by a unit count using exact integer
// arithmetic.
func (m Money) MulUnits(units int) Money {
	return m * Money(units)
}

func (m Money) String() string {
	value := int64(m)
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}

// MarshalJSON renders the amount as a plain decimal number with two decimal
// places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and decimal strings. The raw token
// is parsed digit-by-digit; no float conversion happens.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	value, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = value
	return nil
}
