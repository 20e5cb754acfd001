package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pilesheet/internal/config"
	"pilesheet/internal/logger"
	"pilesheet/internal/ocr"
	"pilesheet/internal/sheet"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file...]",
	Short: "Extract readings from field sheet page images",
	Long: `Process one or more scanned field sheet pages and emit the merged,
deduplicated structured result as JSON.

Pages are processed in the order given. The first page with recognizable
header metadata supplies the submission's project info; readings from all
pages are merged, ordered per the configured policy and deduplicated on
(time, pressure), keeping the occurrence with the better dial gauge
confidence.

Cloud engines (vision, documentai) need Google credentials:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Extract a single page with the default engine
  pilesheet extract sheet-p1.jpg

  # Multi-page submission, chronological ordering, output to file
  pilesheet extract p1.jpg p2.jpg --order time -o result.json

  # Offline run with a recalibrated sheet template
  pilesheet extract p1.png --engine tesseract --template zedgeo-a3.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().String("engine", "", "OCR engine: vision, documentai or tesseract (default: config)")
	extractCmd.Flags().String("order", "", "Reading order: document or time (default: config)")
	extractCmd.Flags().String("template", "", "Sheet template calibration file (default: built-in)")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	engineName, _ := cmd.Flags().GetString("engine")
	order, _ := cmd.Flags().GetString("order")
	templatePath, _ := cmd.Flags().GetString("template")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if engineName != "" {
		cfg.Engine = engineName
	}
	if order != "" {
		cfg.Ordering = order
	}
	if templatePath != "" {
		cfg.TemplatePath = templatePath
	}

	tmpl := config.DefaultTemplate()
	if cfg.TemplatePath != "" {
		tmpl, err = config.LoadTemplate(cfg.TemplatePath)
		if err != nil {
			return err
		}
	}

	log.Info().
		Strs("pages", args).
		Str("engine", cfg.Engine).
		Str("ordering", cfg.Ordering).
		Str("template", tmpl.Name).
		Msg("Starting field sheet extraction")

	pages, err := readPages(args, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	service, err := sheet.NewService(engineFactory(cfg), cfg, tmpl)
	if err != nil {
		return err
	}

	startTime := time.Now()
	result, err := service.ProcessPages(ctx, pages)
	if err != nil {
		return handleExtractError(err, log)
	}

	log.Info().
		Int("page_count", result.PageCount).
		Int("total_readings", result.TotalReadings).
		Dur("duration", time.Since(startTime)).
		Msg("Extraction completed successfully")

	outputData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Extraction results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}

// readPages loads the page image files and tags each with a content type
// derived from its extension.
func readPages(paths []string, log zerolog.Logger) ([]sheet.Page, error) {
	pages := make([]sheet.Page, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().
				Err(err).
				Str("file", path).
				Msg("Failed to read page image")
			return nil, fmt.Errorf("failed to read page image %s: %w", path, err)
		}
		pages = append(pages, sheet.Page{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		})
	}
	return pages, nil
}

// engineFactory defers engine construction until the service first needs it.
func engineFactory(cfg *config.Config) sheet.EngineFactory {
	return func(ctx context.Context) (ocr.Engine, error) {
		switch cfg.Engine {
		case config.EngineTesseract:
			return ocr.NewTesseractEngine(cfg.TesseractLanguage), nil
		case config.EngineDocumentAI:
			return ocr.NewDocumentAIEngine(ctx, ocr.DocumentAIOptions{
				ProjectID:   cfg.GoogleCloudProject,
				Location:    cfg.GoogleCloudLocation,
				ProcessorID: cfg.DocumentAIProcessorID,
			})
		default:
			return ocr.NewVisionEngine(ctx)
		}
	}
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling extraction")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// handleExtractError provides user-friendly error messages for extraction failures
func handleExtractError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Extraction failed")

	var pageErr *sheet.PageError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("extraction timed out. Try increasing --timeout or processing fewer pages")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("extraction was canceled")
	case errors.Is(err, sheet.ErrEmptySubmission):
		return fmt.Errorf("no page images provided")
	case errors.Is(err, sheet.ErrUnsupportedFileType):
		return fmt.Errorf("unsupported file type. Only page images (JPG, PNG, WebP) are accepted; rasterize PDFs to images first")
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("Google Cloud credentials not configured. Set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS, or use --engine tesseract for offline processing")
	case errors.Is(err, ocr.ErrNoText):
		return fmt.Errorf("no text detected. Check that the images are upright, in focus and scanned at sufficient resolution")
	case errors.As(err, &pageErr):
		return fmt.Errorf("processing page %s failed: %w", pageErr.Page, pageErr.Err)
	default:
		return fmt.Errorf("extraction failed: %w", err)
	}
}
