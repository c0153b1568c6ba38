package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/core/ports"
)

// Server exposes claim processing as an MCP tool over stdio so agent
// runtimes can drive the pipeline without going through HTTP.
type Server struct {
	processor ports.ClaimProcessor
	mcpServer *server.MCPServer
}

func NewServer(processor ports.ClaimProcessor, version string) *Server {
	s := &Server{processor: processor}

	mcpServer := server.NewMCPServer(
		"claimflow",
		version,
		server.WithToolCapabilities(false),
	)

	tool := mcp.NewTool("process_claim",
		mcp.WithDescription("Process insurance claim documents and return the validation result and decision as JSON."),
		mcp.WithString("paths",
			mcp.Required(),
			mcp.Description("Comma-separated list of local PDF file paths belonging to one claim."),
		),
	)
	mcpServer.AddTool(tool, s.handleProcessClaim)

	s.mcpServer = mcpServer
	return s
}

// ServeStdio blocks until stdin closes or the context is canceled.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleProcessClaim(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := request.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := readClaimFiles(paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.processor.ProcessClaim(ctx, files)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("claim processing failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode claim response: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func readClaimFiles(paths string) ([]domain.UploadedFile, error) {
	var files []domain.UploadedFile
	for _, raw := range strings.Split(paths, ",") {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, domain.UploadedFile{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no readable files in %q", paths)
	}
	return files, nil
}
