package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Danielzapirtan/ocr-pdf/internal/config"
	"github.com/Danielzapirtan/ocr-pdf/internal/pdf"
	"github.com/Danielzapirtan/ocr-pdf/internal/pipeline"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	extractor *pipeline.Service
	validator *pdf.Validator
	stats     *pdf.Stats
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, extractor *pipeline.Service) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		extractor: extractor,
		validator: pdf.NewValidator(cfg.MaxFileSize),
		stats:     pdf.NewStats(cfg.MaxFileSize),
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTextTool := mcp.NewTool(
		"pdf_extract_text",
		mcp.WithDescription("Extract text from a PDF file, separating main content from supplementary "+
			"material (tables, figures, references). Falls back to OCR when the PDF has no text layer."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(extractTextTool, s.handleExtractText)

	validateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	statsFileTool := mcp.NewTool(
		"pdf_stats_file",
		mcp.WithDescription("Get detailed statistics about a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(statsFileTool, s.handleStatsFile)

	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription("Get server information, available tools, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.extractor.ExtractText(ctx, pipeline.ExtractRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.validator.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleStatsFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.stats.GetFileStats(pdf.StatsFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatStatsResult(result)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - PDF Text Extraction Server\n\n", s.config.ServerName, s.config.Version)
	text += "Extracts a single ordered plain-text representation from PDF documents.\n"
	text += "Documents without an embedded text layer are rasterized and run through OCR.\n"
	text += "Supplementary material (tables, figures, references, appendices) is moved\n"
	text += "after the main text behind a visible separator banner.\n\n"
	text += "Available tools:\n"
	text += "  pdf_extract_text   Extract and reorganize text from a PDF file\n"
	text += "  pdf_validate_file  Validate if a file is a readable PDF\n"
	text += "  pdf_stats_file     Get page count, size, and metadata of a PDF file\n"
	text += "  pdf_server_info    This information\n\n"
	text += fmt.Sprintf("Configuration: %s\n", s.config.String())

	return mcp.NewToolResultText(text), nil
}

// Formatting methods

func (s *Server) formatExtractResult(result *pipeline.ExtractResult) string {
	text := fmt.Sprintf("Successfully extracted text from: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d", result.Pages)
	if result.OCRPages > 0 {
		text += fmt.Sprintf(" (%d via OCR)", result.OCRPages)
	}
	text += "\n"
	text += fmt.Sprintf("Main blocks: %d\n", result.MainBlocks)
	text += fmt.Sprintf("Supplementary blocks: %d\n", result.SupplementaryBlocks)
	text += "\nContent:\n"
	text += result.Text
	return text
}

func (s *Server) formatStatsResult(result *pdf.StatsFileResult) string {
	text := "PDF File Statistics\n"
	text += fmt.Sprintf("Path: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)
	if result.Title != "" {
		text += fmt.Sprintf("Title: %s\n", result.Title)
	}
	if result.Author != "" {
		text += fmt.Sprintf("Author: %s\n", result.Author)
	}
	if result.Subject != "" {
		text += fmt.Sprintf("Subject: %s\n", result.Subject)
	}
	if result.Producer != "" {
		text += fmt.Sprintf("Producer: %s\n", result.Producer)
	}
	if result.CreatedDate != "" {
		text += fmt.Sprintf("Created: %s\n", result.CreatedDate)
	}
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting %s in stdio mode", s.config.ServerName)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode using SSE transport
func (s *Server) runServerMode(ctx context.Context) error {
	sseServer := server.NewSSEServer(s.mcpServer)
	log.Printf("Starting %s on %s", s.config.ServerName, s.config.Address())

	errCh := make(chan error, 1)
	go func() {
		errCh <- sseServer.Start(s.config.Address())
	}()

	select {
	case <-ctx.Done():
		return sseServer.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	}
}
