package cmd

import (
	"github.com/spf13/cobra"

	"invoicedesk/internal/controller"
	"invoicedesk/internal/logger"
	"invoicedesk/internal/terminal"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every stored invoice",
	Long: `Delete every invoice record stored by the service. This cannot be undone,
so the command asks for confirmation unless --yes is given.

After a successful purge the summary and history tables are shown again.`,
	Example: `  # Ask before deleting
  invoicedesk purge

  # Delete without asking (scripts)
  invoicedesk purge --yes`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runPurge(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")

	assumeYes, _ := cmd.Flags().GetBool("yes")

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

	prompt := terminal.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	prompt.AssumeYes = assumeYes

	recorder := &recordingClient{Client: client}
	ctrl := controller.NewHistoryController(recorder, terminal.NewView(cmd.OutOrStdout()),
		prompt, controller.DefaultHistoryOptions())

	state := ctrl.DeleteAll(ctx)
	log.Info().Stringer("state", state).Msg("Purge finished")

	if recorder.deleteFailed() {
		return handleAPIError(recorder.lastErr, cfg.APIURL)
	}
	return nil
}
