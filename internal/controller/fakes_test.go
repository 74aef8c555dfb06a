package controller

import (
	"context"
	"sort"
	"sync"
	"time"

	"invoicedesk/internal/present"
	"invoicedesk/pkg/models"
)

type fakeClient struct {
	record    *models.Record
	submitErr error
	submitted []string

	summary    *models.Summary
	summaryErr error
	records    []models.Record
	listErr    error

	deleteResult *models.DeleteResult
	deleteErr    error
	deletes      int

	calls []string

	// during runs inside Submit and DeleteAll, while the request is in flight.
	during func()
}

func (f *fakeClient) Submit(_ context.Context, filename string, _ []byte) (*models.Record, error) {
	f.calls = append(f.calls, "submit")
	f.submitted = append(f.submitted, filename)
	if f.during != nil {
		f.during()
	}
	return f.record, f.submitErr
}

func (f *fakeClient) ListInvoices(context.Context) ([]models.Record, error) {
	f.calls = append(f.calls, "list")
	return f.records, f.listErr
}

func (f *fakeClient) FetchSummary(context.Context) (*models.Summary, error) {
	f.calls = append(f.calls, "summary")
	return f.summary, f.summaryErr
}

func (f *fakeClient) DeleteAll(context.Context) (*models.DeleteResult, error) {
	f.calls = append(f.calls, "delete")
	f.deletes++
	if f.during != nil {
		f.during()
	}
	return f.deleteResult, f.deleteErr
}

type slot struct {
	Text  string
	Class StatusClass
}

// fakeView records the latest write to every slot.
type fakeView struct {
	result         string
	successVisible bool
	submitEnabled  bool
	submitLabel    string
	resultHistory  []string

	summaryRows   []present.SummaryRow
	summaryNotice *slot
	summaryTotal  *slot
	historyRows   []present.HistoryRow
	historyNotice *slot

	deleteEnabled bool
	deleteStatus  *slot
	statusHistory []slot
}

func newFakeView() *fakeView {
	return &fakeView{submitEnabled: true, deleteEnabled: true}
}

func (v *fakeView) SetResult(text string) {
	v.result = text
	v.resultHistory = append(v.resultHistory, text)
}

func (v *fakeView) SetSuccessVisible(visible bool) { v.successVisible = visible }

func (v *fakeView) SetSubmitEnabled(enabled bool, label string) {
	v.submitEnabled = enabled
	v.submitLabel = label
}

func (v *fakeView) ShowSummary(rows []present.SummaryRow) {
	v.summaryRows = rows
	v.summaryNotice = nil
}

func (v *fakeView) ShowSummaryNotice(text string, class StatusClass) {
	v.summaryRows = nil
	v.summaryNotice = &slot{text, class}
}

func (v *fakeView) ShowSummaryTotal(text string, class StatusClass) {
	v.summaryTotal = &slot{text, class}
}

func (v *fakeView) ShowHistory(rows []present.HistoryRow) {
	v.historyRows = rows
	v.historyNotice = nil
}

func (v *fakeView) ShowHistoryNotice(text string, class StatusClass) {
	v.historyRows = nil
	v.historyNotice = &slot{text, class}
}

func (v *fakeView) SetDeleteEnabled(enabled bool) { v.deleteEnabled = enabled }

func (v *fakeView) ShowDeleteStatus(text string, class StatusClass) {
	v.deleteStatus = &slot{text, class}
	v.statusHistory = append(v.statusHistory, slot{text, class})
}

func (v *fakeView) HideDeleteStatus() { v.deleteStatus = nil }

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, prompt string) bool {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

// fakeClock fires tasks only when Advance moves time past their deadline.
// Stopped tasks fire too, as a runtime timer may when Stop loses the race.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, f: f}
	c.tasks = append(c.tasks, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.tasks {
		if !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tasks {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
