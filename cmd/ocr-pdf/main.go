package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Danielzapirtan/ocr-pdf/internal/config"
	"github.com/Danielzapirtan/ocr-pdf/internal/extract"
	"github.com/Danielzapirtan/ocr-pdf/internal/mcp"
	"github.com/Danielzapirtan/ocr-pdf/internal/organize"
	"github.com/Danielzapirtan/ocr-pdf/internal/pdf"
	"github.com/Danielzapirtan/ocr-pdf/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the server mode
func setupLogging(cfg *config.Config, oneShot bool) {
	if cfg.IsStdioMode() && !oneShot {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// buildPipeline wires the extraction pipeline from configuration
func buildPipeline(cfg *config.Config) *pipeline.Service {
	logger := log.Default()

	var fallback pipeline.FallbackSource
	if cfg.OCREnabled {
		engine := extract.NewTesseractEngine(cfg.OCRLanguages, cfg.OCRDPI)
		fallback = extract.NewOCRSource(engine, cfg.OCRDPI, logger)
	}

	return pipeline.NewService(
		pdf.NewValidator(cfg.MaxFileSize),
		extract.NewEmbeddedSource(logger),
		fallback,
		pipeline.Options{
			Policy: cfg.FallbackPolicy,
			Classifier: organize.ClassifierConfig{
				DensityThreshold: cfg.DensityThreshold,
				HeaderScanLines:  cfg.HeaderScanLines,
			},
			Logger: logger,
		},
	)
}

// runFileMode processes a single PDF and writes the result next to the
// working directory as <name>.txt
func runFileMode(ctx context.Context, extractor *pipeline.Service, pdfPath string) error {
	result, err := extractor.ExtractText(ctx, pipeline.ExtractRequest{Path: pdfPath})
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	outputPath := stem + ".txt"
	if err := os.WriteFile(outputPath, []byte(result.Text), 0o600); err != nil {
		return fmt.Errorf("failed to save text file: %w", err)
	}

	log.Printf("text saved to %s (%d bytes)", outputPath, len(result.Text))
	log.Printf("content organized: %d main blocks, %d supplementary blocks",
		result.MainBlocks, result.SupplementaryBlocks)
	return nil
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}

	log.Println("Server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	oneShot := pflag.NArg() > 0
	setupLogging(cfg, oneShot)

	if version != "dev" {
		cfg.Version = version
	}

	extractor := buildPipeline(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if oneShot {
		if err := runFileMode(ctx, extractor, pflag.Arg(0)); err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
		return
	}

	server, err := mcp.NewServer(cfg, extractor)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, server)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("ocr-pdf\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
