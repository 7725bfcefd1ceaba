// Package coerce turns raw CSV cell text into typed values. Every
// function is total: unparseable input yields nil, never an error,
// because a bad cell must not sink the row it came from.
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// sentinels that spreadsheets use for "no value".
func isEmpty(s string) bool {
	switch strings.ToLower(s) {
	case "", ".", "-", "nan", "none", "null":
		return true
	}
	return false
}

// Text trims whitespace and returns nil for empty or sentinel cells.
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if isEmpty(s) {
		return nil
	}
	return &s
}

// Int parses an integer, tolerating thousands separators and float
// renderings like "152000.0" that spreadsheet exports produce.
func Int(s string) *int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if isEmpty(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

// Money parses a currency amount, stripping "$" and thousands
// separators. Negative amounts pass through; rent credits and
// adjustments show up that way in source files.
func Money(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if isEmpty(s) {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// Year parses a four-digit year and rejects values outside
// [1800, current year + 5].
func Year(s string) *int {
	v := Int(s)
	if v == nil {
		return nil
	}
	if *v < 1800 || *v > time.Now().Year()+5 {
		return nil
	}
	return v
}

// Zip normalizes a ZIP code: trims a trailing ".0" from float-rendered
// cells, requires all digits, and truncates ZIP+4 forms to five.
func Zip(s string) *string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if isEmpty(s) {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	if len(s) > 5 {
		s = s[:5]
	}
	return &s
}

var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006"}

// Date parses the date renderings seen in source files, trying ISO
// first, then US slash and dash forms.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if isEmpty(s) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
