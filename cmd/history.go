package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"invoicedesk/internal/controller"
	"invoicedesk/internal/invoiceapi"
	"invoicedesk/internal/logger"
	"invoicedesk/internal/terminal"
	"invoicedesk/pkg/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the monthly spend summary and every stored invoice",
	Long: `Show the monthly totals converted to TWD, the all-time total, and a table
of every invoice the service has stored.`,
	Example: `  invoicedesk history
  invoicedesk history --api-url http://invoices.local:8000`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, 0, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(cfg.APITimeout, log)
	defer cancel()

	recorder := &recordingClient{Client: client}
	ctrl := controller.NewHistoryController(recorder, terminal.NewView(cmd.OutOrStdout()),
		terminal.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout()), controller.DefaultHistoryOptions())

	summary, history := ctrl.Load(ctx)
	if summary == controller.LoadFailed && history == controller.LoadFailed {
		return handleAPIError(recorder.lastErr, cfg.APIURL)
	}
	return nil
}

// recordingClient remembers the last error returned by the service so a
// command can map it to an exit status after the controller has rendered it.
type recordingClient struct {
	*invoiceapi.Client
	lastErr error
}

func (r *recordingClient) ListInvoices(ctx context.Context) ([]models.Record, error) {
	records, err := r.Client.ListInvoices(ctx)
	r.record(err)
	return records, err
}

func (r *recordingClient) FetchSummary(ctx context.Context) (*models.Summary, error) {
	summary, err := r.Client.FetchSummary(ctx)
	r.record(err)
	return summary, err
}

func (r *recordingClient) DeleteAll(ctx context.Context) (*models.DeleteResult, error) {
	result, err := r.Client.DeleteAll(ctx)
	r.record(err)
	return result, err
}

func (r *recordingClient) record(err error) {
	if err != nil {
		r.lastErr = err
	}
}

// deleteFailed reports whether the last purge attempt failed.
func (r *recordingClient) deleteFailed() bool {
	return errors.Is(r.lastErr, invoiceapi.ErrDelete)
}
