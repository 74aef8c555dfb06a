package present

import (
	"fmt"

	"invoicedesk/internal/format"
	"invoicedesk/pkg/models"
)

// HistoryHeaders names the columns of a HistoryRow, in order.
var HistoryHeaders = []string{
	"類型", "發票號碼", "公司名稱", "項目", "原始金額", "幣別", "台幣金額", "匯率", "發票日期",
}

// SummaryHeaders names the columns of a SummaryRow, in order.
var SummaryHeaders = []string{"月份", "台幣總額"}

// HistoryRow is one display row of the history table.
type HistoryRow struct {
	Type          string
	InvoiceNumber string
	Company       string
	Item          string
	Amount        string
	Currency      string
	AmountTWD     string
	Rate          string
	Date          string
}

// Cells returns the row's values in HistoryHeaders order.
func (r HistoryRow) Cells() []string {
	return []string{
		r.Type, r.InvoiceNumber, r.Company, r.Item, r.Amount,
		r.Currency, r.AmountTWD, r.Rate, r.Date,
	}
}

// SummaryRow is one display row of the monthly summary table.
type SummaryRow struct {
	Month string
	Total string
}

// Cells returns the row's values in SummaryHeaders order.
func (r SummaryRow) Cells() []string {
	return []string{r.Month, r.Total}
}

// HistoryRows renders stored records for the history table.
func HistoryRows(records []models.Record) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for _, rec := range records {
		typ, _ := rec.Get(models.KeyType)
		number, _ := rec.Get(models.KeyInvoiceNumber)
		currency, _ := rec.Get(models.KeyCurrency)

		rows = append(rows, HistoryRow{
			Type:          format.TranslateType(format.Value(typ)),
			InvoiceNumber: format.Value(number),
			Company:       format.Truncate(rec.CompanyName()),
			Item:          format.Truncate(rec.ItemDescription()),
			Amount:        format.Amount(rec.TotalAmount()),
			Currency:      format.Value(currency),
			AmountTWD:     format.Money(rec.TotalAmountTWD()),
			Rate:          format.Rate(rec.ExchangeRateUsed()),
			Date:          format.Date(rec.InvoiceDateISO()),
		})
	}
	return rows
}

// SummaryRows renders the monthly totals in the order the service sent them.
func SummaryRows(s *models.Summary) []SummaryRow {
	if s == nil {
		return nil
	}
	rows := make([]SummaryRow, 0, len(s.Monthly))
	for _, m := range s.Monthly {
		rows = append(rows, SummaryRow{Month: m.Month, Total: format.Money(m.TotalTWD)})
	}
	return rows
}

// SummaryTotal renders the all-time total line.
func SummaryTotal(s *models.Summary) string {
	var total float64
	if s != nil {
		total = s.TotalAllTime
	}
	return "總支出 (所有時間): " + format.Money(total)
}

// SummaryFootnote reports how many records the service summed, or "" when
// it did not say.
func SummaryFootnote(s *models.Summary) string {
	if s == nil || s.ProcessedCount == nil || s.DBTotalCount == nil {
		return ""
	}
	return fmt.Sprintf("已彙總 %d / %d 筆紀錄", *s.ProcessedCount, *s.DBTotalCount)
}
