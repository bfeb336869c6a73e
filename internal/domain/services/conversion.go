package services

import (
	"context"

	"pandochost/internal/domain/models"
)

// ConversionService validates a request, dispatches it to a Converter by
// output format class, and assembles the result.
type ConversionService interface {
	// Convert runs one synchronous conversion.
	// Returns *domain.ValidationError for bad input and *domain.ConversionError
	// for converter or staging failures.
	Convert(ctx context.Context, req *models.ConversionRequest) (*models.ConversionResult, error)
}

// TextJob describes a text-to-text conversion
type TextJob struct {
	Source    string
	From      string
	To        string
	ExtraArgs []string // Format-specific converter flags (e.g. PDF engine)
}

// FileJob describes a text-to-file conversion. The converter writes its
// output to OutputPath; the caller owns that path.
type FileJob struct {
	Source     string
	From       string
	To         string
	ExtraArgs  []string
	OutputPath string
}

// Converter is the document conversion back end.
//
// Implementations must be safe for concurrent use.
type Converter interface {
	// ConvertText converts source text and returns the converted text.
	ConvertText(ctx context.Context, job TextJob) (string, error)

	// ConvertFile converts source text and writes the result to job.OutputPath.
	ConvertFile(ctx context.Context, job FileJob) error

	// Name returns a human-readable converter name for logging.
	Name() string
}
