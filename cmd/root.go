package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invoicedesk/internal/config"
	"invoicedesk/internal/invoiceapi"
	"invoicedesk/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicedesk",
	Short: "Invoicedesk - a command-line client for the invoice recognition service",
	Long: `Invoicedesk uploads invoice scans and PDFs to the invoice recognition
service, shows what it extracted, and browses or purges the stored history.

Configuration is read from the environment and from a .env file:
  INVOICE_API_URL      - Base URL of the service (default: http://127.0.0.1:8000)
  INVOICE_API_TIMEOUT  - Request timeout in seconds (default: 120)
  GOOGLE_SHEET_URL     - Target spreadsheet for the export command`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Invoice service base URL (overrides INVOICE_API_URL)")
}

// loadConfig reads the configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		if err := config.ValidateAPIURL(apiURL); err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// newClient builds an invoice service client from the configuration.
func newClient(cfg *config.Config, timeout time.Duration, log zerolog.Logger) (*invoiceapi.Client, error) {
	if timeout <= 0 {
		timeout = cfg.APITimeout
	}

	client, err := invoiceapi.New(invoiceapi.Config{BaseURL: cfg.APIURL, Timeout: timeout})
	if err != nil {
		log.Error().Err(err).Str("api_url", cfg.APIURL).Msg("Failed to create invoice service client")
		return nil, fmt.Errorf("failed to create invoice service client: %w", err)
	}

	log.Debug().
		Str("api_url", cfg.APIURL).
		Dur("timeout", timeout).
		Msg("Invoice service client created")
	return client, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling request")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleAPIError provides user-friendly error messages for service failures
func handleAPIError(err error, apiURL string) error {
	var apiErr *invoiceapi.APIError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("the invoice service did not answer in time. Try increasing --timeout or INVOICE_API_TIMEOUT")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("request was canceled")
	case errors.As(err, &apiErr) && apiErr.StatusCode == 0 && apiErr.Err != nil:
		return fmt.Errorf("could not reach the invoice service at %s. Is it running?\n\nOriginal error: %w", apiURL, apiErr.Err)
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 500:
		return fmt.Errorf("the invoice service failed (HTTP %d): %w", apiErr.StatusCode, err)
	default:
		return err
	}
}
