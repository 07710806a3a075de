package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonyc-ship/rebook/internal/export"
)

const (
	defaultCoverMaxWidth = 600
	defaultJPEGQuality   = 90
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebook <book.epub>",
		Short: "Extract readable text and cover from EPUB files",
		Long: `rebook reads an EPUB e-book and writes its title, author, chapters
(plain text with word counts) and cover image as JSON.

Chapters that cannot be read are skipped; a book fails only when no
chapter yields any text.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}

			opts.Logger.Info("extracting", "input", opts.InputPath, "output", opts.OutputPath)
			if _, err := export.NewPipeline(opts).Run(); err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			opts.Logger.Info("done", "output", opts.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output JSON path, - for stdout (default: input with .json extension)")
	cmd.Flags().Bool("encoded", false, "Input file contains the EPUB as base64 text")
	cmd.Flags().String("cover-out", "", "Write the cover image to this path (format from extension)")
	cmd.Flags().Int("cover-max-width", defaultCoverMaxWidth, "Maximum width of the exported cover in pixels")
	cmd.Flags().Int("quality", defaultJPEGQuality, "JPEG quality for the exported cover (60-100)")
	cmd.Flags().Bool("pretty", false, "Indent the JSON output")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", "text", "Log format: text, json")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")
	return cmd
}

// readCLIOptions validates flags and builds the pipeline options.
func readCLIOptions(cmd *cobra.Command, args []string) (export.Options, error) {
	flags := cmd.Flags()
	inputPath := args[0]

	outputPath, _ := flags.GetString("output")
	encoded, _ := flags.GetBool("encoded")
	coverPath, _ := flags.GetString("cover-out")
	coverMaxWidth, _ := flags.GetInt("cover-max-width")
	quality, _ := flags.GetInt("quality")
	pretty, _ := flags.GetBool("pretty")
	logLevel, _ := flags.GetString("log-level")
	logFormat, _ := flags.GetString("log-format")
	verbose, _ := flags.GetBool("verbose")

	if quality < 60 || quality > 100 {
		return export.Options{}, fmt.Errorf("--quality must be between 60 and 100, got %d", quality)
	}
	if coverMaxWidth <= 0 {
		return export.Options{}, fmt.Errorf("--cover-max-width must be positive, got %d", coverMaxWidth)
	}
	if _, ok := parseLogLevel(logLevel); !ok {
		return export.Options{}, fmt.Errorf("--log-level must be one of debug, info, warn, error, got %q", logLevel)
	}
	switch strings.ToLower(logFormat) {
	case "text", "json":
	default:
		return export.Options{}, fmt.Errorf("--log-format must be text or json, got %q", logFormat)
	}
	if verbose {
		logLevel = "debug"
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	return export.Options{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		Encoded:       encoded,
		CoverPath:     coverPath,
		CoverMaxWidth: coverMaxWidth,
		JPEGQuality:   quality,
		Pretty:        pretty,
		Logger:        buildLogger(os.Stderr, logLevel, logFormat),
		Stdout:        cmd.OutOrStdout(),
	}, nil
}

func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, _ := parseLogLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".json"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
