package models

import "strings"

// DefaultFormat is applied to input_format and output_format when the field is absent
const DefaultFormat = "markdown"

// FormatClass partitions output formats by how their result is delivered
type FormatClass string

const (
	// FormatClassText formats are returned as a string body
	FormatClassText FormatClass = "text"
	// FormatClassFile formats are staged through a temp file and returned base64-encoded
	FormatClassFile FormatClass = "file"
)

// ConversionRequest is a single conversion job. It lives only for the duration of one request.
type ConversionRequest struct {
	Contents     string `json:"contents"`
	InputFormat  string `json:"input_format"`
	OutputFormat string `json:"output_format"`
}

// NewConversionRequest builds a request, defaulting absent formats to markdown.
// A nil format means the field was absent; an explicitly empty format is kept
// as-is so validation can reject it.
func NewConversionRequest(contents string, inputFormat, outputFormat *string) *ConversionRequest {
	return &ConversionRequest{
		Contents:     contents,
		InputFormat:  normalizeFormat(inputFormat),
		OutputFormat: normalizeFormat(outputFormat),
	}
}

func normalizeFormat(f *string) string {
	if f == nil {
		return DefaultFormat
	}
	return strings.ToLower(strings.TrimSpace(*f))
}

// ResultKind discriminates the ConversionResult variants
type ResultKind string

const (
	ResultKindText ResultKind = "text"
	ResultKindFile ResultKind = "file"
)

// ConversionResult is a tagged union: exactly one of the variant fields is set,
// as indicated by Kind.
type ConversionResult struct {
	Kind ResultKind

	// Text variant
	ConvertedContent string

	// File variant
	FileContentBase64 string
	OutputFormat      string
}

// NewTextResult creates the text variant
func NewTextResult(content string) *ConversionResult {
	return &ConversionResult{
		Kind:             ResultKindText,
		ConvertedContent: content,
	}
}

// NewFileResult creates the file variant
func NewFileResult(contentBase64, outputFormat string) *ConversionResult {
	return &ConversionResult{
		Kind:              ResultKindFile,
		FileContentBase64: contentBase64,
		OutputFormat:      outputFormat,
	}
}

// IsFile reports whether this is the file variant
func (r *ConversionResult) IsFile() bool {
	return r.Kind == ResultKindFile
}
