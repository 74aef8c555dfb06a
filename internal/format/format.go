// Package format turns raw invoice record values into display strings.
//
// Every function is total: it accepts absent or zero-like input and never
// panics. Zero, empty and missing values all render as Placeholder; the
// service gives no way to tell a real zero from an absent field, so none is
// attempted here.
//
// Fixed-point output rounds half away from zero on the decimal value,
// so 0.03125 renders as "0.0313".
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// Placeholder is shown for any absent or falsy value.
	Placeholder = "N/A"

	// CurrencyPrefix marks amounts converted to the local currency.
	CurrencyPrefix = "NT$ "

	// Ellipsis is appended to truncated text.
	Ellipsis = "..."

	// MaxTextLength is the longest free text shown untruncated.
	MaxTextLength = 30

	// ROCYearOffset converts a Republic of China year to a Gregorian one.
	ROCYearOffset = 1911
)

// Amount renders an original-currency amount as the service sent it,
// without unit or rounding.
func Amount(v any) string {
	return Value(v)
}

// Money renders a converted amount with two decimals and the local
// currency prefix.
func Money(v float64) string {
	if v == 0 {
		return Placeholder
	}
	return CurrencyPrefix + fixed(v, 2)
}

// Rate renders an exchange rate with four decimals.
func Rate(v float64) string {
	if v == 0 {
		return Placeholder
	}
	return fixed(v, 4)
}

// Truncate shortens free text to MaxTextLength characters.
func Truncate(s string) string {
	if s == "" {
		return Placeholder
	}
	if utf8.RuneCountInString(s) <= MaxTextLength {
		return s
	}
	return string([]rune(s)[:MaxTextLength]) + Ellipsis
}

// Date renders an already-normalized ISO date. No parsing is done.
func Date(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// ROCDate converts a seven-digit ROC date (YYYMMDD) to "YYYY / MM / DD".
// Input that is not exactly seven digits is returned unchanged.
func ROCDate(ymd string) string {
	if ymd == "" {
		return Placeholder
	}
	if len(ymd) != 7 || !allDigits(ymd) {
		return ymd
	}
	year, _ := strconv.Atoi(ymd[0:3])
	return fmt.Sprintf("%d / %s / %s", year+ROCYearOffset, ymd[3:5], ymd[5:7])
}

// Value renders an arbitrary JSON value, substituting Placeholder for
// falsy values (null, "", 0, false).
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return Placeholder
	case string:
		if x == "" {
			return Placeholder
		}
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return Placeholder
		}
		return x.String()
	case float64:
		if x == 0 {
			return Placeholder
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		if x == 0 {
			return Placeholder
		}
		return strconv.Itoa(x)
	case bool:
		if !x {
			return Placeholder
		}
		return "true"
	default:
		return fmt.Sprint(x)
	}
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
