package mcpserver

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pandochost/internal/client"
)

var testImpl = &mcp.Implementation{Name: "pandoc-host-test", Version: "0.1.0"}

type fakeConverter struct {
	resp *client.Response
	err  error
	reqs []client.Request
}

func (f *fakeConverter) Convert(_ context.Context, req client.Request) (*client.Response, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func session(t *testing.T, conv Converter) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testImpl, nil)
	Register(srv, conv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	cs, err := mcp.NewClient(testImpl, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, args map[string]any) (string, error) {
	t.Helper()
	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: ToolName, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	if result.IsError {
		return "", errors.New(tc.Text)
	}
	return tc.Text, nil
}

func TestTool_TextConversion(t *testing.T) {
	conv := &fakeConverter{resp: &client.Response{ConvertedContent: "<h1>Hi</h1>"}}
	cs := session(t, conv)

	text, err := call(t, cs, map[string]any{"contents": "# Hi", "output_format": "HTML"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", text)

	require.Len(t, conv.reqs, 1)
	assert.Equal(t, "markdown", conv.reqs[0].InputFormat)
	assert.Equal(t, "html", conv.reqs[0].OutputFormat)
}

func TestTool_TxtMapsToPlain(t *testing.T) {
	conv := &fakeConverter{resp: &client.Response{ConvertedContent: "Hi"}}
	cs := session(t, conv)

	_, err := call(t, cs, map[string]any{"contents": "# Hi", "output_format": "txt"})
	require.NoError(t, err)
	assert.Equal(t, "plain", conv.reqs[0].OutputFormat)
}

func TestTool_Errors(t *testing.T) {
	tests := []struct {
		name    string
		conv    *fakeConverter
		args    map[string]any
		wantErr string
	}{
		{"missing contents", &fakeConverter{}, map[string]any{"output_format": "html"}, "'contents'"},
		{"unsupported format", &fakeConverter{}, map[string]any{"contents": "x", "output_format": "odt"}, "invalid output_format 'odt'"},
		{"binary without output file", &fakeConverter{resp: &client.Response{FileContentBase64: "JVBERg=="}}, map[string]any{"contents": "x", "output_format": "pdf"}, "'output_file' is required"},
		{"service error", &fakeConverter{err: &client.ServiceError{StatusCode: http.StatusInternalServerError, Message: "Pandoc conversion failed: boom"}}, map[string]any{"contents": "x"}, "Pandoc conversion failed: boom"},
		{"unreachable", &fakeConverter{err: errors.New("connection refused")}, map[string]any{"contents": "x"}, "failed to call host pandoc service"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := session(t, tt.conv)
			_, err := call(t, cs, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTool_SavesBinaryOutput(t *testing.T) {
	conv := &fakeConverter{resp: &client.Response{
		FileContentBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.5")),
		OutputFormat:      "pdf",
	}}
	cs := session(t, conv)
	path := filepath.Join(t.TempDir(), "out", "doc.pdf")

	text, err := call(t, cs, map[string]any{"contents": "x", "output_format": "pdf", "output_file": path})
	require.NoError(t, err)
	assert.Contains(t, text, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5", string(data))
}
