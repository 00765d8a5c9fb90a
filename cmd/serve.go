package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/agentic-research/tsorg/internal/organize"
	"github.com/agentic-research/tsorg/internal/writeback"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the organizer as an MCP tool over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.NewMCPServer("tsorg", version, server.WithToolCapabilities(false))

		tool := mcp.NewTool("organize_source",
			mcp.WithDescription("Organize a TypeScript file's declarations into labeled, counted sections. Returns the organized text, or 'unchanged' when the file is already canonical."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the TypeScript file")),
			mcp.WithString("source", mcp.Description("Source text to organize; read from disk when omitted")),
			mcp.WithBoolean("write", mcp.Description("Apply the organized text back to the file")),
		)
		s.AddTool(tool, handleOrganize)

		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func handleOrganize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	source := req.GetString("source", "")
	if source == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read %s: %v", path, err)), nil
		}
		source = string(data)
	}

	cfg, err := resolveConfig(filepath.Dir(path))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := organize.Organize(path, source, cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !res.Changed {
		return mcp.NewToolResultText("unchanged"), nil
	}

	if req.GetBool("write", false) {
		out := []byte(res.Output)
		if err := writeback.Validate(out, path); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := writeback.Replace(path, out); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return mcp.NewToolResultText(res.Output), nil
}
