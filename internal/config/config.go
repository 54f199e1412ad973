package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Fallback policy constants
	FallbackDocument = "document"
	FallbackPage     = "page"

	// Default values
	DefaultPort             = 8080
	DefaultHost             = "127.0.0.1"
	DefaultLogLevel         = "info"
	DefaultMaxFileSize      = 100 * 1024 * 1024 // 100MB
	DefaultOCRDPI           = 300
	DefaultDensityThreshold = 0.3
	DefaultHeaderScanLines  = 3
)

// Config holds all configuration for the PDF text extraction server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Extraction configuration
	MaxFileSize    int64 // Maximum PDF file size in bytes
	OCREnabled     bool
	OCRDPI         int
	OCRLanguages   []string
	FallbackPolicy string // "document" or "page"

	// Classification configuration
	DensityThreshold float64
	HeaderScanLines  int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		MaxFileSize:      DefaultMaxFileSize,
		OCREnabled:       true,
		OCRDPI:           DefaultOCRDPI,
		OCRLanguages:     []string{"eng"},
		FallbackPolicy:   FallbackDocument,
		DensityThreshold: DefaultDensityThreshold,
		HeaderScanLines:  DefaultHeaderScanLines,
		Version:          "1.0.0",
		ServerName:       "ocr-pdf",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("OCR_PDF")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocr", cfg.OCREnabled)
	viper.SetDefault("dpi", cfg.OCRDPI)
	viper.SetDefault("languages", cfg.OCRLanguages)
	viper.SetDefault("fallback", cfg.FallbackPolicy)
	viper.SetDefault("density", cfg.DensityThreshold)
	viper.SetDefault("scanlines", cfg.HeaderScanLines)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Bool("ocr", cfg.OCREnabled, "Enable the OCR fallback for PDFs without a text layer")
	pflag.Int("dpi", cfg.OCRDPI, "Rasterization density for OCR, in dots per inch")
	pflag.StringSlice("languages", cfg.OCRLanguages, "OCR language hints (e.g. eng,deu)")
	pflag.String("fallback", cfg.FallbackPolicy, "OCR fallback granularity: 'document' or 'page'")
	pflag.Float64("density", cfg.DensityThreshold, "Tabular-density ratio above which a block is supplementary")
	pflag.Int("scanlines", cfg.HeaderScanLines, "Leading lines checked for supplementary markers")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("ocr", pflag.Lookup("ocr"))
	_ = viper.BindPFlag("dpi", pflag.Lookup("dpi"))
	_ = viper.BindPFlag("languages", pflag.Lookup("languages"))
	_ = viper.BindPFlag("fallback", pflag.Lookup("fallback"))
	_ = viper.BindPFlag("density", pflag.Lookup("density"))
	_ = viper.BindPFlag("scanlines", pflag.Lookup("scanlines"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s [flags] [pdf-file]:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nocr-pdf - Extract and reorganize text from PDF files, with OCR fallback\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s document.pdf                      # one-shot: writes document.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --ocr=false document.pdf          # embedded text only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --fallback=page scanned.pdf       # per-page OCR fallback\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s                                   # MCP stdio mode (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_OCR          Enable OCR fallback\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_DPI          OCR rasterization DPI\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_LANGUAGES    OCR language hints\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_FALLBACK     Fallback granularity\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_DENSITY      Tabular-density threshold\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_SCANLINES    Marker scan window\n")
		fmt.Fprintf(os.Stderr, "  OCR_PDF_LOGLEVEL     Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCREnabled = viper.GetBool("ocr")
	cfg.OCRDPI = viper.GetInt("dpi")
	cfg.OCRLanguages = viper.GetStringSlice("languages")
	cfg.FallbackPolicy = viper.GetString("fallback")
	cfg.DensityThreshold = viper.GetFloat64("density")
	cfg.HeaderScanLines = viper.GetInt("scanlines")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate OCR settings
	if c.OCRDPI < 72 || c.OCRDPI > 1200 {
		return fmt.Errorf("dpi must be between 72 and 1200, got %d", c.OCRDPI)
	}
	if c.FallbackPolicy != FallbackDocument && c.FallbackPolicy != FallbackPage {
		return errors.New("fallback must be either 'document' or 'page'")
	}

	// Validate classification settings
	if c.DensityThreshold <= 0 || c.DensityThreshold >= 1 {
		return fmt.Errorf("density threshold must be between 0 and 1, got %g", c.DensityThreshold)
	}
	if c.HeaderScanLines < 1 {
		return errors.New("scanlines must be at least 1")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, OCR: %t, DPI: %d, Fallback: %s, Density: %g, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.OCREnabled, c.OCRDPI, c.FallbackPolicy, c.DensityThreshold, c.LogLevel, c.MaxFileSize)
}
