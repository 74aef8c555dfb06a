package invoiceapi

import "errors"

// Failure kinds. Every error returned by Client matches exactly one of
// them with errors.Is.
var (
	// ErrRecognition is returned when an uploaded file could not be processed.
	ErrRecognition = errors.New("invoice recognition failed")

	// ErrFetch is returned when records or the summary could not be retrieved.
	ErrFetch = errors.New("fetching invoice data failed")

	// ErrDelete is returned when stored records could not be purged.
	ErrDelete = errors.New("deleting invoices failed")
)

// Generic messages used when the service gives no detail.
const (
	msgRecognitionFailed = "辨識失敗"
	msgDeleteFailed      = "刪除失敗"
	msgRequestFailed     = "request failed"
)

// APIError describes a failed exchange with the recognition service.
type APIError struct {
	// Op is the client operation that failed (e.g., "Submit", "ListInvoices").
	Op string

	// Kind is one of ErrRecognition, ErrFetch or ErrDelete.
	Kind error

	// Message is the text shown to the user: the service's detail, the
	// HTTP status text, or a generic fallback, in that order of preference.
	Message string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the transport or decoding error, if any.
	Err error
}

// Error implements the error interface. When a transport or decoding
// cause is attached, Message is only the generic fallback, so the cause is
// reported instead.
func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying transport or decoding error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the failure kind. The wrapped error is reached through Unwrap.
func (e *APIError) Is(target error) bool {
	return target == e.Kind
}
