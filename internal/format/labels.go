package format

import "invoicedesk/pkg/models"

// TypeLabels maps capture methods to their display names.
var TypeLabels = map[string]string{
	models.TypeOnlinePDF:   "線上 PDF 發票",
	models.TypeElectronic:  "電子發票 (QR Code)",
	models.TypeTraditional: "傳統紙本發票 (OCR)",
}

// FieldLabels maps record keys to their display names.
var FieldLabels = map[string]string{
	models.KeyType:             "發票類型",
	models.KeyInvoiceNumber:    "發票號碼",
	models.KeyCompanyName:      "公司名稱",
	models.KeyItemDescription:  "項目",
	models.KeyTotalAmount:      "原始金額",
	models.KeyCurrency:         "原始幣別",
	models.KeyTotalAmountTWD:   "換算台幣",
	models.KeyExchangeRateUsed: "當時匯率",
	models.KeyDateYMD:          "發票日期",
	models.KeyInvoiceDateISO:   "發票日期",
}

// TranslateType returns the display name of a capture method, or v itself
// when it is not a known one.
func TranslateType(v string) string {
	if label, ok := TypeLabels[v]; ok {
		return label
	}
	return v
}

// IsKnownType reports whether v is one of the capture methods in TypeLabels.
func IsKnownType(v string) bool {
	_, ok := TypeLabels[v]
	return ok
}

// FieldLabel returns the display name of a record key, or the key itself.
func FieldLabel(key string) string {
	if label, ok := FieldLabels[key]; ok {
		return label
	}
	return key
}
