// Package mcpserver exposes the conversion service as an MCP tool.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pandochost/internal/client"
)

// ToolName is the name clients call
const ToolName = "convert-contents"

// SupportedFormats is what the tool accepts for input_format and output_format
var SupportedFormats = []string{"markdown", "html", "pdf", "docx", "rst", "latex", "epub", "txt"}

// formatAliases maps tool-level names to converter format names
var formatAliases = map[string]string{
	"txt": "plain",
}

// Converter is the subset of client.Client the tool needs
type Converter interface {
	Convert(ctx context.Context, req client.Request) (*client.Response, error)
}

type convertArgs struct {
	Contents     *string `json:"contents"`
	InputFormat  string  `json:"input_format"`
	OutputFormat string  `json:"output_format"`
	OutputFile   string  `json:"output_file"`
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// Register adds the convert-contents tool to srv
func Register(srv *mcp.Server, conv Converter, logger *slog.Logger) {
	tool := &mcp.Tool{
		Name: ToolName,
		Description: "Converts content between formats using the pandoc host service.\n\n" +
			"Supported formats: " + strings.Join(SupportedFormats, ", ") + "\n\n" +
			"'input_file' is not supported. Binary formats (pdf, docx, epub) require 'output_file'.",
		InputSchema: inputSchema(map[string]any{
			"contents": map[string]any{
				"type":        "string",
				"description": "The content to convert",
			},
			"input_format": map[string]any{
				"type":        "string",
				"description": "Source format, one of the supported formats (default: markdown)",
				"default":     "markdown",
			},
			"output_format": map[string]any{
				"type":        "string",
				"description": "Target format, one of the supported formats (default: markdown)",
				"default":     "markdown",
			},
			"output_file": map[string]any{
				"type":        "string",
				"description": "Absolute path where the output is saved",
			},
		}, []string{"contents"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args convertArgs
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}

		text, err := handle(ctx, conv, args)
		if err != nil {
			logger.Warn("convert-contents failed", "error", err)
			return toolError(err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

func handle(ctx context.Context, conv Converter, args convertArgs) (string, error) {
	if args.Contents == nil {
		return "", errors.New("invalid or missing 'contents' argument")
	}

	in, err := normalizeFormat("input_format", args.InputFormat)
	if err != nil {
		return "", err
	}
	out, err := normalizeFormat("output_format", args.OutputFormat)
	if err != nil {
		return "", err
	}

	resp, err := conv.Convert(ctx, client.Request{
		Contents:     *args.Contents,
		InputFormat:  in,
		OutputFormat: out,
	})
	if err != nil {
		var svcErr *client.ServiceError
		if errors.As(err, &svcErr) {
			return "", fmt.Errorf("host pandoc service error: %s", svcErr.Message)
		}
		return "", fmt.Errorf("failed to call host pandoc service: %w", err)
	}

	if args.OutputFile == "" {
		if resp.IsFile() {
			return "", fmt.Errorf("output format '%s' is binary; 'output_file' is required", out)
		}
		return resp.ConvertedContent, nil
	}

	if err := client.SaveOutput(resp, args.OutputFile); err != nil {
		return "", fmt.Errorf("conversion succeeded, but failed to write to output file '%s': %w", args.OutputFile, err)
	}
	return "Content successfully converted and saved to: " + args.OutputFile, nil
}

func normalizeFormat(field, value string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(value))
	if f == "" {
		f = "markdown"
	}
	if !slices.Contains(SupportedFormats, f) {
		return "", fmt.Errorf("invalid %s '%s'. Supported: %s", field, f, strings.Join(SupportedFormats, ", "))
	}
	if alias, ok := formatAliases[f]; ok {
		return alias, nil
	}
	return f, nil
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}
