package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Field names used by the recognition service.
const (
	KeyID               = "id"
	KeyType             = "type"
	KeyInvoiceNumber    = "invoice_number"
	KeyCompanyName      = "company_name"
	KeyItemDescription  = "item_description"
	KeyDateYMD          = "date_ymd"
	KeyInvoiceDateISO   = "invoice_date_iso"
	KeyTotalAmount      = "total_amount"
	KeyCurrency         = "currency"
	KeyTotalAmountTWD   = "total_amount_twd"
	KeyExchangeRateUsed = "exchange_rate_used"
	KeyStatus           = "status"
)

// Capture methods reported in the type field.
const (
	TypeOnlinePDF   = "Online (PDF)"
	TypeElectronic  = "Electronic (QR Code)"
	TypeTraditional = "Traditional (OCR)"
)

// Field is one key/value pair of a record, in the order the service sent it.
type Field struct {
	Key   string
	Value any // nil, string, json.Number, bool, []any or map[string]any
}

// Record is one recognized invoice as returned by the service.
//
// The field order of the JSON object is kept so that a record can be
// rendered in the order the service produced it. Numbers are kept as
// json.Number. Absent fields and JSON null both read as the zero value.
type Record struct {
	fields []Field
}

// NewRecord builds a record from ordered fields. Mostly useful in tests.
func NewRecord(fields ...Field) Record {
	return Record{fields: append([]Field(nil), fields...)}
}

// Fields returns a copy of the record's fields in their original order.
func (r Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Text returns the value under key as text. Numbers are returned in
// their original notation; anything else non-textual yields "".
func (r Record) Text(key string) string {
	v, _ := r.Get(key)
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	}
	return ""
}

// Float returns the value under key as a float64. Numeric strings are
// parsed; anything unparsable yields 0.
func (r Record) Float(key string) float64 {
	v, _ := r.Get(key)
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// ID returns the storage identifier assigned by the service.
func (r Record) ID() string { return r.Text(KeyID) }

// Type returns the capture method, one of the Type constants.
func (r Record) Type() string { return r.Text(KeyType) }

// InvoiceNumber returns the recognized invoice number.
func (r Record) InvoiceNumber() string { return r.Text(KeyInvoiceNumber) }

// CompanyName returns the issuing company.
func (r Record) CompanyName() string { return r.Text(KeyCompanyName) }

// ItemDescription returns the billed item text.
func (r Record) ItemDescription() string { return r.Text(KeyItemDescription) }

// DateYMD returns the compact ROC invoice date, such as "1140613".
func (r Record) DateYMD() string { return r.Text(KeyDateYMD) }

// InvoiceDateISO returns the invoice date in ISO form.
func (r Record) InvoiceDateISO() string { return r.Text(KeyInvoiceDateISO) }

// Currency returns the original currency code.
func (r Record) Currency() string { return r.Text(KeyCurrency) }

// Status returns the processing status reported by the service.
func (r Record) Status() string { return r.Text(KeyStatus) }

// TotalAmountTWD returns the amount converted to TWD, or 0 when absent.
func (r Record) TotalAmountTWD() float64 { return r.Float(KeyTotalAmountTWD) }

// ExchangeRateUsed returns the conversion rate, or 0 when absent.
func (r Record) ExchangeRateUsed() float64 { return r.Float(KeyExchangeRateUsed) }

// TotalAmount returns the original-currency amount untouched. The service
// stores it as text, but older records may carry a number.
func (r Record) TotalAmount() any {
	v, _ := r.Get(KeyTotalAmount)
	return v
}

// UnmarshalJSON decodes a JSON object while keeping its key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: unexpected key token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: decoding %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	r.fields = fields
	return nil
}

// MarshalJSON encodes the record with its keys in their original order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("record: encoding %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
