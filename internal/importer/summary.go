package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RowError is an error for a single row. Rows are numbered from 1.
type RowError struct {
	Row   int    `json:"row"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// Summary reports what an import did.
type Summary struct {
	Checksum   string     `json:"checksum,omitempty"` // SHA256 of the uploaded file
	Created    int        `json:"created"`
	Updated    int        `json:"updated"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	Errors     []RowError `json:"errors"`
}

func (s *Summary) fail(row int, code string, err error) {
	s.Errors = append(s.Errors, RowError{Row: row, Code: code, Error: err.Error()})
}

func (s *Summary) count(created bool) {
	if created {
		s.Created++
	} else {
		s.Updated++
	}
}

var (
	integralFloat = regexp.MustCompile(`^(-?\d+)\.0+$`)
	leadingDigits = regexp.MustCompile(`^\s*(\d+)`)
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
)

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of column i. Integral floats like "101.0"
// are returned as "101".
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}

	v := strings.TrimSpace(row[i])
	if m := integralFloat.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}

// projectCode returns the leading digits of the value, e.g. "1020 - Roads"
// becomes "1020".
func projectCode(v string) string {
	m := leadingDigits.FindStringSubmatch(v)
	if m == nil {
		return ""
	}
	return m[1]
}

// amount parses an amount, ignoring thousands separators and currency
// symbols. ok is false if nothing numeric remains.
func amount(v string) (d decimal.Decimal, ok bool, err error) {
	cleaned := nonNumeric.ReplaceAllString(strings.ReplaceAll(v, ",", ""), "")
	switch cleaned {
	case "", "-", ".", "-.", ".-":
		return decimal.Zero, false, nil
	}

	d, err = decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}
