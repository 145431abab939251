// Package types implements special types for budgetflow.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrInvalidMonth = errors.New("the month must be a number from 1 to 12 or a three letter abbreviation")

// FiscalMonth is a calendar month as used on transactions.
type FiscalMonth time.Month

var title = cases.Title(language.English)

// ParseFiscalMonth parses a month number ("1" to "12") or a month name.
// Only the first three letters of a name are considered, case does not
// matter.
func ParseFiscalMonth(s string) (FiscalMonth, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMonth
	}

	if n, err := strconv.Atoi(s); err == nil {
		return FiscalMonthFromInt(n)
	}

	if len(s) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	abbrev := title.String(strings.ToLower(s[:3]))
	for m := time.January; m <= time.December; m++ {
		if m.String()[:3] == abbrev {
			return FiscalMonth(m), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

// FiscalMonthFromInt returns the month for a number from 1 to 12.
func FiscalMonthFromInt(n int) (FiscalMonth, error) {
	if n < 1 || n > 12 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, n)
	}
	return FiscalMonth(n), nil
}

// Abbreviation returns the three letter abbreviation, e.g. "Jan".
func (m FiscalMonth) Abbreviation() string {
	if !m.Valid() {
		return ""
	}
	return time.Month(m).String()[:3]
}

// String implements fmt.Stringer.
func (m FiscalMonth) String() string {
	return m.Abbreviation()
}

// MarshalJSON encodes the month as its abbreviation.
func (m FiscalMonth) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.Abbreviation())), nil
}

// UnmarshalJSON accepts numbers and names.
func (m *FiscalMonth) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	parsed, err := ParseFiscalMonth(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmarshalParam lets gin bind query and form parameters.
func (m *FiscalMonth) UnmarshalParam(p string) error {
	if p == "" {
		*m = 0
		return nil
	}

	parsed, err := ParseFiscalMonth(p)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Valid reports whether m is a month from January to December.
func (m FiscalMonth) Valid() bool {
	return m >= 1 && m <= 12
}
