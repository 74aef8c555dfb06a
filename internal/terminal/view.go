// Package terminal renders controller output as text on a terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"invoicedesk/internal/controller"
	"invoicedesk/internal/present"
)

var (
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF4672")
	mutedColor   = lipgloss.Color("#767676")
	headerColor  = lipgloss.Color("#7D56F4")
)

const textRecognized = "辨識成功！"

// View writes every slot update to out as it happens. It implements both
// controller.UploadView and controller.HistoryView, and is safe for use
// from timer goroutines.
type View struct {
	mu  sync.Mutex
	out io.Writer

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	borderStyle  lipgloss.Style
	totalStyle   lipgloss.Style

	// ShowControls prints a note whenever a control is enabled or disabled.
	ShowControls bool

	submitEnabled bool
	submitLabel   string
	deleteEnabled bool
	statusVisible bool
}

var (
	_ controller.UploadView  = (*View)(nil)
	_ controller.HistoryView = (*View)(nil)
)

// NewView creates a View writing to out. Colours are used only when out is
// a terminal that supports them.
func NewView(out io.Writer) *View {
	r := lipgloss.NewRenderer(out)
	return &View{
		out:           out,
		successStyle:  r.NewStyle().Foreground(successColor),
		errorStyle:    r.NewStyle().Foreground(errorColor),
		mutedStyle:    r.NewStyle().Foreground(mutedColor),
		headerStyle:   r.NewStyle().Bold(true).Foreground(headerColor).Padding(0, 1),
		cellStyle:     r.NewStyle().Padding(0, 1),
		borderStyle:   r.NewStyle().Foreground(mutedColor),
		totalStyle:    r.NewStyle().Bold(true),
		submitEnabled: true,
		deleteEnabled: true,
	}
}

// SubmitEnabled reports the submit control state and its label.
func (v *View) SubmitEnabled() (bool, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitEnabled, v.submitLabel
}

// DeleteEnabled reports whether the delete control accepts input.
func (v *View) DeleteEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deleteEnabled
}

// StatusVisible reports whether the delete status line is showing.
func (v *View) StatusVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statusVisible
}

// SetResult prints the recognition result or error text.
func (v *View) SetResult(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(strings.TrimSuffix(text, "\n"))
}

// SetSuccessVisible prints the success flag when visible is true.
func (v *View) SetSuccessVisible(visible bool) {
	if !visible {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(v.successStyle.Render(textRecognized))
}

// SetSubmitEnabled records the submit control state and label.
func (v *View) SetSubmitEnabled(enabled bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitEnabled = enabled
	v.submitLabel = label
	if v.ShowControls {
		v.println(v.mutedStyle.Render(fmt.Sprintf("[%s]", label)))
	}
}

// ShowSummary prints the monthly totals as a table.
func (v *View) ShowSummary(rows []present.SummaryRow) {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, row.Cells())
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(v.table(present.SummaryHeaders, cells))
}

// ShowSummaryNotice prints a message in place of the summary table.
func (v *View) ShowSummaryNotice(text string, class controller.StatusClass) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(v.styled(text, class))
}

// ShowSummaryTotal prints the all-time total line.
func (v *View) ShowSummaryTotal(text string, class controller.StatusClass) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if class == controller.StatusPlain {
		text = v.totalStyle.Render(text)
	}
	v.println(v.styled(text, class))
}

// ShowHistory prints the stored records as a table.
func (v *View) ShowHistory(rows []present.HistoryRow) {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, row.Cells())
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(v.table(present.HistoryHeaders, cells))
}

// ShowHistoryNotice prints a message in place of the history table.
func (v *View) ShowHistoryNotice(text string, class controller.StatusClass) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(v.styled(text, class))
}

// SetDeleteEnabled records whether the delete control accepts input.
func (v *View) SetDeleteEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	changed := v.deleteEnabled != enabled
	v.deleteEnabled = enabled
	if v.ShowControls && changed {
		note := "[刪除功能已停用]"
		if enabled {
			note = "[刪除功能已恢復]"
		}
		v.println(v.mutedStyle.Render(note))
	}
}

// ShowDeleteStatus prints the delete status line.
func (v *View) ShowDeleteStatus(text string, class controller.StatusClass) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statusVisible = true
	v.println(v.styled(text, class))
}

// HideDeleteStatus cannot take back printed text; it only records that the
// status is gone.
func (v *View) HideDeleteStatus() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statusVisible = false
}

func (v *View) styled(text string, class controller.StatusClass) string {
	switch class {
	case controller.StatusSuccess:
		return v.successStyle.Render(text)
	case controller.StatusError:
		return v.errorStyle.Render(text)
	default:
		return text
	}
}

func (v *View) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.headerStyle
			}
			return v.cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// println writes one line. Caller holds mu.
func (v *View) println(s string) {
	fmt.Fprintln(v.out, s)
}
