// Package builtin is an in-process fallback converter for hosts without pandoc.
// It covers the common text pairs only; file-class output always fails.
package builtin

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	htmlconv "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pandochost/internal/domain/services"
)

// convertFunc transforms source text for one from/to pair
type convertFunc func(ctx context.Context, source string) (string, error)

type pair struct {
	from string
	to   string
}

// Converter routes text conversions to registered from/to pair handlers.
//
// Thread-safe for concurrent access.
type Converter struct {
	mu    sync.RWMutex
	pairs map[pair]convertFunc
}

// Options configures the builtin converter
type Options struct {
	// SanitizeHTML runs HTML output through the UGC sanitizer
	SanitizeHTML bool
}

// NewConverter creates a converter with the standard pairs registered
func NewConverter(opts Options) *Converter {
	c := &Converter{pairs: make(map[pair]convertFunc)}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	toMarkdown := htmlconv.NewConverter(
		htmlconv.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	var sanitizer *HTMLSanitizer
	if opts.SanitizeHTML {
		sanitizer = NewHTMLSanitizer()
	}

	renderHTML := func(_ context.Context, source string) (string, error) {
		var buf bytes.Buffer
		if err := md.Convert([]byte(source), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		if sanitizer != nil {
			return sanitizer.Sanitize(buf.String()), nil
		}
		return buf.String(), nil
	}

	parseHTML := func(_ context.Context, source string) (string, error) {
		out, err := toMarkdown.ConvertString(source)
		if err != nil {
			return "", fmt.Errorf("convert html: %w", err)
		}
		return out, nil
	}

	passthrough := func(_ context.Context, source string) (string, error) {
		return source, nil
	}

	for _, from := range []string{"markdown", "gfm", "commonmark"} {
		for _, to := range []string{"markdown", "gfm", "commonmark", "plain"} {
			c.Register(from, to, passthrough)
		}
		c.Register(from, "html", renderHTML)
		c.Register(from, "html5", renderHTML)
	}
	for _, from := range []string{"html", "html5"} {
		for _, to := range []string{"markdown", "gfm", "commonmark"} {
			c.Register(from, to, parseHTML)
		}
	}
	c.Register("plain", "plain", passthrough)
	c.Register("plain", "markdown", passthrough)

	return c
}

// Register adds or replaces the handler for a from/to pair.
// Format names are case-insensitive.
func (c *Converter) Register(from, to string, fn convertFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs[pair{strings.ToLower(from), strings.ToLower(to)}] = fn
}

// ConvertText converts using the registered pair handler
func (c *Converter) ConvertText(ctx context.Context, job services.TextJob) (string, error) {
	c.mu.RLock()
	fn, ok := c.pairs[pair{strings.ToLower(job.From), strings.ToLower(job.To)}]
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unsupported conversion: %s to %s", job.From, job.To)
	}
	return fn(ctx, job.Source)
}

// ConvertFile is not supported by the builtin converter
func (c *Converter) ConvertFile(_ context.Context, job services.FileJob) error {
	return fmt.Errorf("unsupported conversion: %s output requires pandoc", job.To)
}

// Name returns the converter name for logging
func (c *Converter) Name() string {
	return "builtin"
}
