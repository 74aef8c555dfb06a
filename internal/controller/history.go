package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"invoicedesk/internal/logger"
	"invoicedesk/internal/present"
)

// LoadState is the outcome of loading one table.
type LoadState int

const (
	Loaded LoadState = iota
	LoadFailed
)

func (s LoadState) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "failed"
}

// DeleteState is the position of a HistoryController in the delete flow.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteAwaitConfirmation
	DeleteDeleting
	DeletePostDeleteCooldown
	DeleteCancelled
)

func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeleteAwaitConfirmation:
		return "await-confirmation"
	case DeleteDeleting:
		return "deleting"
	case DeletePostDeleteCooldown:
		return "post-delete-cooldown"
	case DeleteCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// DeletePrompt is the question asked before purging.
const DeletePrompt = "您確定要刪除所有發票歷史紀錄嗎？此操作無法復原！"

const (
	textLoading        = "載入中..."
	textSummaryEmpty   = "尚無資料可彙總。"
	textHistoryEmpty   = "資料庫中尚無發票紀錄。"
	prefixSummaryFail  = "無法獲取彙總資料: "
	prefixHistoryFail  = "無法獲取詳細資料: "
	textTotalFailed    = "無法計算總金額"
	textDeleteCancel   = "已取消刪除操作。"
	textDeleting       = "刪除中..."
	textDeleteSuccess  = "刪除成功！"
	prefixDeleteFailed = "刪除失敗: "
)

// HistoryOptions tunes a HistoryController.
type HistoryOptions struct {
	// NoticeDelay is how long the cancellation notice stays up.
	NoticeDelay time.Duration

	// CooldownDelay is how long delete stays disabled after a purge attempt.
	CooldownDelay time.Duration

	// Clock schedules both delays. Default: SystemClock.
	Clock Clock
}

// DefaultHistoryOptions returns a 2s notice and a 3s cooldown.
func DefaultHistoryOptions() HistoryOptions {
	return HistoryOptions{
		NoticeDelay:   2 * time.Second,
		CooldownDelay: 3 * time.Second,
		Clock:         SystemClock,
	}
}

// HistoryController loads the summary and history tables and runs the
// purge flow.
type HistoryController struct {
	client  HistoryService
	view    HistoryView
	confirm Confirmer
	opts    HistoryOptions
	log     zerolog.Logger

	mu            sync.Mutex
	state         DeleteState
	deleteEnabled bool
	timers        *flowTimers
}

// NewHistoryController creates a HistoryController with delete enabled.
// Zero fields of opts take their defaults.
func NewHistoryController(client HistoryService, view HistoryView, confirm Confirmer, opts HistoryOptions) *HistoryController {
	defaults := DefaultHistoryOptions()
	if opts.NoticeDelay <= 0 {
		opts.NoticeDelay = defaults.NoticeDelay
	}
	if opts.CooldownDelay <= 0 {
		opts.CooldownDelay = defaults.CooldownDelay
	}
	if opts.Clock == nil {
		opts.Clock = defaults.Clock
	}

	c := &HistoryController{
		client:        client,
		view:          view,
		confirm:       confirm,
		opts:          opts,
		log:           logger.WithComponent("history"),
		deleteEnabled: true,
	}
	c.timers = newFlowTimers(opts.Clock, &c.mu)
	return c
}

// State returns the current delete-flow state.
func (c *HistoryController) State() DeleteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DeleteEnabled reports whether the delete control accepts input.
func (c *HistoryController) DeleteEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteEnabled
}

// Load fills the summary table, then the history table.
func (c *HistoryController) Load(ctx context.Context) (summary, history LoadState) {
	summary = c.LoadSummary(ctx)
	history = c.LoadHistory(ctx)
	return summary, history
}

// LoadSummary fetches the monthly totals and writes the summary slots.
func (c *HistoryController) LoadSummary(ctx context.Context) LoadState {
	c.view.ShowSummaryNotice(textLoading, StatusPlain)

	summary, err := c.client.FetchSummary(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Loading summary failed")
		c.view.ShowSummaryNotice(prefixSummaryFail+err.Error(), StatusError)
		c.view.ShowSummaryTotal(textTotalFailed, StatusError)
		return LoadFailed
	}

	rows := present.SummaryRows(summary)
	if len(rows) == 0 {
		c.view.ShowSummaryNotice(textSummaryEmpty, StatusPlain)
	} else {
		c.view.ShowSummary(rows)
	}
	total := present.SummaryTotal(summary)
	if note := present.SummaryFootnote(summary); note != "" {
		total += "\n" + note
	}
	c.view.ShowSummaryTotal(total, StatusPlain)

	c.log.Debug().Int("months", len(rows)).Msg("Summary loaded")
	return Loaded
}

// LoadHistory fetches the stored records and writes the history slots.
func (c *HistoryController) LoadHistory(ctx context.Context) LoadState {
	c.view.ShowHistoryNotice(textLoading, StatusPlain)

	records, err := c.client.ListInvoices(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Loading history failed")
		c.view.ShowHistoryNotice(prefixHistoryFail+err.Error(), StatusError)
		return LoadFailed
	}

	if len(records) == 0 {
		c.view.ShowHistoryNotice(textHistoryEmpty, StatusPlain)
	} else {
		c.view.ShowHistory(present.HistoryRows(records))
	}

	c.log.Debug().Int("records", len(records)).Msg("History loaded")
	return Loaded
}

// DeleteAll asks for confirmation and purges every stored record. It
// returns the state the flow settled in; the pending notice or cooldown
// timer later moves it back to DeleteIdle. While delete is disabled the
// call does nothing.
func (c *HistoryController) DeleteAll(ctx context.Context) DeleteState {
	c.mu.Lock()
	if !c.deleteEnabled {
		state := c.state
		c.mu.Unlock()
		c.log.Debug().Stringer("state", state).Msg("Delete ignored while disabled")
		return state
	}
	c.timers.invalidate(flowNotice, flowCooldown)
	c.state = DeleteAwaitConfirmation
	c.mu.Unlock()

	if !c.confirm.Confirm(ctx, DeletePrompt) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = DeleteCancelled
		c.view.ShowDeleteStatus(textDeleteCancel, StatusPlain)
		c.timers.schedule(flowNotice, c.opts.NoticeDelay, func() {
			c.view.HideDeleteStatus()
			c.state = DeleteIdle
		})
		c.log.Info().Msg("Delete cancelled")
		return DeleteCancelled
	}

	c.mu.Lock()
	c.state = DeleteDeleting
	c.deleteEnabled = false
	c.view.ShowDeleteStatus(textDeleting, StatusPlain)
	c.view.SetDeleteEnabled(false)
	c.mu.Unlock()

	result, err := c.client.DeleteAll(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Delete failed")
		c.showDeleteStatus(prefixDeleteFailed+err.Error(), StatusError)
	} else {
		message := result.Message
		if message == "" {
			message = textDeleteSuccess
		}
		c.log.Info().Str("message", message).Msg("Stored invoices deleted")
		c.showDeleteStatus(message, StatusSuccess)
		c.LoadSummary(ctx)
		c.LoadHistory(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = DeletePostDeleteCooldown
	c.timers.schedule(flowCooldown, c.opts.CooldownDelay, func() {
		c.deleteEnabled = true
		c.view.SetDeleteEnabled(true)
		c.state = DeleteIdle
	})
	return DeletePostDeleteCooldown
}

func (c *HistoryController) showDeleteStatus(text string, class StatusClass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.ShowDeleteStatus(text, class)
}
