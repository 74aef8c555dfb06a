package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"invoicedesk/internal/controller"
	"invoicedesk/internal/logger"
	"invoicedesk/internal/terminal"
)

const consoleHelp = `Commands:
  upload <file>   upload an invoice image or PDF for recognition
  history         show the monthly summary and the stored invoices
  delete          delete every stored invoice (asks first)
  help            show this help
  quit            leave the console`

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start an interactive session",
	Long: `Start an interactive session that keeps the upload and history views open.

Unlike the one-shot commands, the console keeps running after a purge, so
the delete cooldown and the cancellation notice play out in full:
delete stays disabled for a few seconds after each attempt.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("console")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, 0, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second interrupt ends the process while waiting for input.
		<-ctx.Done()
		stop()
	}()

	out := cmd.OutOrStdout()
	view := terminal.NewView(out)
	view.ShowControls = true
	prompt := terminal.NewPrompt(cmd.InOrStdin(), out)

	upload := controller.NewUploadController(client, view)
	history := controller.NewHistoryController(client, view, prompt, controller.DefaultHistoryOptions())

	log.Info().Str("api_url", cfg.APIURL).Msg("Console started")
	fmt.Fprintf(out, "invoicedesk %s - %s\n%s\n", version, cfg.APIURL, consoleHelp)

	for {
		fmt.Fprint(out, "> ")
		line, err := prompt.ReadLine(ctx)
		if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) > 0 {
			reqCtx, cancel := context.WithTimeout(ctx, cfg.APITimeout)
			quit := runConsoleCommand(reqCtx, out, fields, upload, history)
			cancel()
			if quit {
				break
			}
		}

		if err != nil || ctx.Err() != nil {
			fmt.Fprintln(out)
			break
		}
	}

	log.Info().Msg("Console closed")
	return nil
}

// runConsoleCommand executes one console line and reports whether the
// session should end.
func runConsoleCommand(ctx context.Context, out io.Writer, fields []string,
	upload *controller.UploadController, history *controller.HistoryController) bool {
	log := logger.WithComponent("console")

	switch strings.ToLower(fields[0]) {
	case "upload":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: upload <file>")
			return false
		}
		path := strings.Join(fields[1:], " ")
		if _, err := validateUploadFile(path, log); err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		upload.Submit(ctx, []controller.File{{Name: filepath.Base(path), Data: data}})

	case "history":
		history.Load(ctx)

	case "delete":
		if !history.DeleteEnabled() {
			fmt.Fprintln(out, "刪除功能暫時停用，請稍候再試。")
			return false
		}
		history.DeleteAll(ctx)

	case "help", "?":
		fmt.Fprintln(out, consoleHelp)

	case "quit", "exit":
		return true

	default:
		fmt.Fprintf(out, "unknown command %q, type help for a list\n", fields[0])
	}
	return false
}
