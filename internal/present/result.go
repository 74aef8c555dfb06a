// Package present composes formatter output into the blocks and table
// rows shown to the user.
package present

import (
	"strings"

	"invoicedesk/internal/format"
	"invoicedesk/pkg/models"
)

// Separator divides the headline fields from the remaining ones.
const Separator = "--------------------------------"

// suppressed lists keys that are either internal or already shown as
// headline fields.
var suppressed = map[string]bool{
	models.KeyID:              true,
	models.KeyStatus:          true,
	models.KeyTotalAmountTWD:  true,
	models.KeyCompanyName:     true,
	models.KeyItemDescription: true,
}

// ResultText renders a freshly recognized record as a multi-line block.
//
// The converted amount, company and item come first when present, then a
// separator, then every other field in the order the service sent them.
func ResultText(rec models.Record) string {
	var b strings.Builder

	if twd := rec.TotalAmountTWD(); twd != 0 {
		writeLine(&b, format.FieldLabel(models.KeyTotalAmountTWD), format.Money(twd))
	}
	if company := rec.CompanyName(); company != "" {
		writeLine(&b, format.FieldLabel(models.KeyCompanyName), company)
	}
	if item := rec.ItemDescription(); item != "" {
		writeLine(&b, format.FieldLabel(models.KeyItemDescription), item)
	}
	b.WriteString(Separator)
	b.WriteByte('\n')

	for _, f := range rec.Fields() {
		if suppressed[f.Key] {
			continue
		}
		writeLine(&b, format.FieldLabel(f.Key), fieldValue(rec, f))
	}
	return b.String()
}

func fieldValue(rec models.Record, f models.Field) string {
	if s, ok := f.Value.(string); ok && format.IsKnownType(s) {
		return format.TranslateType(s)
	}
	switch f.Key {
	case models.KeyDateYMD:
		if ymd := rec.DateYMD(); ymd != "" {
			return format.ROCDate(ymd)
		}
	case models.KeyExchangeRateUsed:
		if rate := rec.ExchangeRateUsed(); rate != 0 {
			return format.Rate(rate)
		}
	}
	return format.Value(f.Value)
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}
