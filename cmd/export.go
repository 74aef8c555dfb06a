package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicedesk/internal/logger"
	"invoicedesk/internal/present"
	"invoicedesk/internal/sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Append the invoice history to a Google Sheet",
	Long: `Fetch every stored invoice and append it to a worksheet of a Google Sheet,
formatted exactly as the history table. The worksheet and its header row
are created when missing.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - URL of the target spreadsheet`,
	Example: `  invoicedesk export
  invoicedesk export --worksheet "2025 Invoices"`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("worksheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sheets")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	worksheet, _ := cmd.Flags().GetString("worksheet")
	if worksheet == "" {
		worksheet = cfg.GoogleSheetWorksheet
	}
	if cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required")
	}

	client, err := newClient(cfg, 0, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(cfg.APITimeout, log)
	defer cancel()

	records, err := client.ListInvoices(ctx)
	if err != nil {
		return handleAPIError(err, cfg.APIURL)
	}

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Google Sheets service")
		return fmt.Errorf("failed to create Google Sheets service: %w", err)
	}

	if err := sheetsService.WriteHistory(ctx, present.HistoryRows(records), worksheet); err != nil {
		return fmt.Errorf("failed to export invoice history: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "已匯出 %d 筆紀錄至工作表 %q\n", len(records), worksheet)
	return nil
}
