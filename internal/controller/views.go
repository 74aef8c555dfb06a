// Package controller sequences calls to the invoice service and drives the
// view sinks that display their outcome.
//
// Controllers never fail: every client error ends up as text in a view
// slot, and the returned state tells the caller what happened.
package controller

import (
	"context"

	"invoicedesk/internal/present"
	"invoicedesk/pkg/models"
)

// StatusClass styles a status or notice line.
type StatusClass string

const (
	StatusPlain   StatusClass = ""
	StatusSuccess StatusClass = "success-message"
	StatusError   StatusClass = "error-message"
)

// UploadView receives the output of an UploadController.
type UploadView interface {
	SetResult(text string)
	SetSuccessVisible(visible bool)
	SetSubmitEnabled(enabled bool, label string)
}

// HistoryView receives the output of a HistoryController.
type HistoryView interface {
	ShowSummary(rows []present.SummaryRow)
	ShowSummaryNotice(text string, class StatusClass)
	ShowSummaryTotal(text string, class StatusClass)

	ShowHistory(rows []present.HistoryRow)
	ShowHistoryNotice(text string, class StatusClass)

	SetDeleteEnabled(enabled bool)
	ShowDeleteStatus(text string, class StatusClass)
	HideDeleteStatus()
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Uploader submits a file for recognition.
type Uploader interface {
	Submit(ctx context.Context, filename string, data []byte) (*models.Record, error)
}

// HistoryService reads and purges stored records.
type HistoryService interface {
	ListInvoices(ctx context.Context) ([]models.Record, error)
	FetchSummary(ctx context.Context) (*models.Summary, error)
	DeleteAll(ctx context.Context) (*models.DeleteResult, error)
}
