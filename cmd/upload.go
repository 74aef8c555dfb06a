package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invoicedesk/internal/controller"
	"invoicedesk/internal/logger"
	"invoicedesk/internal/terminal"
)

// MaxUploadBytes is the largest file the upload command sends.
const MaxUploadBytes int64 = 50 << 20

var uploadExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".heic": true, ".webp": true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload an invoice image or PDF for recognition",
	Long: `Upload one invoice file to the recognition service and print the fields
it extracted. The converted amount, company and item are shown first.

PDF invoices are read as text; photos of electronic and paper invoices go
through QR-code decoding or OCR on the service side.`,
	Example: `  # Recognize a scanned receipt
  invoicedesk upload receipt.jpg

  # Print the stored record as JSON
  invoicedesk upload invoice.pdf --json

  # Allow more time for a large scan
  invoicedesk upload scan.png --timeout 300`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().Bool("json", false, "Print the stored record as JSON")
	uploadCmd.Flags().Int("timeout", 0, "Request timeout in seconds (default: INVOICE_API_TIMEOUT)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("upload")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	path := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	timeout := time.Duration(timeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = cfg.APITimeout
	}

	log.Info().
		Str("file", path).
		Bool("json", jsonOutput).
		Dur("timeout", timeout).
		Msg("Starting upload")

	if _, err := validateUploadFile(path, log); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to read file")
		return fmt.Errorf("failed to read file: %w", err)
	}

	client, err := newClient(cfg, timeout, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeout, log)
	defer cancel()

	var out io.Writer = cmd.OutOrStdout()
	if jsonOutput {
		out = io.Discard
	}
	ctrl := controller.NewUploadController(client, terminal.NewView(out))

	result := ctrl.Submit(ctx, []controller.File{{Name: filepath.Base(path), Data: data}})
	if result.State == controller.UploadFailed {
		if jsonOutput {
			fmt.Fprintln(cmd.ErrOrStderr(), "錯誤: "+result.Err.Error())
		}
		return handleAPIError(result.Err, cfg.APIURL)
	}

	if jsonOutput {
		encoded, err := json.MarshalIndent(result.Record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	}
	return nil
}

// validateUploadFile checks that the file exists, is a regular non-empty
// file and is not too large.
func validateUploadFile(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("File not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().Str("file", path).Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	if !uploadExtensions[strings.ToLower(filepath.Ext(path))] {
		log.Warn().
			Str("file", path).
			Msg("File is not a PDF or a common image type, the service may reject it")
	}

	if fileInfo.Size() == 0 {
		log.Error().Str("file", path).Msg("File is empty")
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > MaxUploadBytes {
		log.Error().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Int64("max_size", MaxUploadBytes).
			Msg("File exceeds maximum size limit")
		return nil, fmt.Errorf("file too large (%d bytes). Maximum size is %d bytes (50MB)",
			fileInfo.Size(), MaxUploadBytes)
	}

	return fileInfo, nil
}
