package conversion

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"pandochost/internal/domain"
	"pandochost/internal/domain/models"
	"pandochost/internal/domain/services"
	"pandochost/internal/formats"
	"pandochost/internal/workspace"
)

// Options holds format-specific converter flag settings
type Options struct {
	PDFEngine string // e.g. "xelatex"
	PDFMargin string // e.g. "1in"
}

// conversionService implements the ConversionService interface
type conversionService struct {
	converter services.Converter
	formats   *formats.Registry
	workspace *workspace.Workspace
	opts      Options
	logger    *slog.Logger
}

// NewConversionService creates a new conversion service.
// The workspace is owned by the caller and must outlive the service.
func NewConversionService(
	converter services.Converter,
	registry *formats.Registry,
	ws *workspace.Workspace,
	opts Options,
	logger *slog.Logger,
) services.ConversionService {
	return &conversionService{
		converter: converter,
		formats:   registry,
		workspace: ws,
		opts:      opts,
		logger:    logger,
	}
}

// Convert validates the request and dispatches by output format class
func (s *conversionService) Convert(ctx context.Context, req *models.ConversionRequest) (*models.ConversionResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	extraArgs := s.extraArgs(req.OutputFormat)
	class := s.formats.Class(req.OutputFormat)

	s.logger.Info("conversion requested",
		"input_format", req.InputFormat,
		"output_format", req.OutputFormat,
		"class", class,
		"converter", s.converter.Name(),
	)

	if class == models.FormatClassFile {
		return s.convertToFile(ctx, req, extraArgs)
	}
	return s.convertToText(ctx, req, extraArgs)
}

func (s *conversionService) convertToText(ctx context.Context, req *models.ConversionRequest, extraArgs []string) (*models.ConversionResult, error) {
	s.logger.Debug("attempting text conversion",
		"from", req.InputFormat,
		"to", req.OutputFormat,
		"extra_args", extraArgs,
	)

	out, err := s.converter.ConvertText(ctx, services.TextJob{
		Source:    req.Contents,
		From:      req.InputFormat,
		To:        req.OutputFormat,
		ExtraArgs: extraArgs,
	})
	if err != nil {
		return nil, s.conversionFailed(err)
	}
	// Binary writers missing from the format table end up here
	if !utf8.ValidString(out) {
		return nil, s.conversionFailed(fmt.Errorf("output format %s produced binary output; it must be registered as a file format", req.OutputFormat))
	}

	s.logger.Info("text conversion successful", "output_length", len(out))
	return models.NewTextResult(out), nil
}

func (s *conversionService) convertToFile(ctx context.Context, req *models.ConversionRequest, extraArgs []string) (*models.ConversionResult, error) {
	artifact := s.workspace.Acquire(s.formats.Extension(req.OutputFormat))
	defer artifact.Release()

	s.logger.Debug("attempting file conversion",
		"from", req.InputFormat,
		"to", req.OutputFormat,
		"extra_args", extraArgs,
		"path", artifact.Path(),
	)

	err := s.converter.ConvertFile(ctx, services.FileJob{
		Source:     req.Contents,
		From:       req.InputFormat,
		To:         req.OutputFormat,
		ExtraArgs:  extraArgs,
		OutputPath: artifact.Path(),
	})
	if err != nil {
		return nil, s.conversionFailed(err)
	}

	data, err := artifact.ReadAll()
	if err != nil {
		return nil, s.conversionFailed(err)
	}
	if len(data) == 0 {
		return nil, s.conversionFailed(errors.New("converter produced an empty file"))
	}

	s.logger.Info("file conversion successful",
		"output_format", req.OutputFormat,
		"size_bytes", len(data),
	)
	return models.NewFileResult(base64.StdEncoding.EncodeToString(data), req.OutputFormat), nil
}

// extraArgs returns format-specific converter flags. They are passed to both
// the text and the file path.
func (s *conversionService) extraArgs(outputFormat string) []string {
	if outputFormat != "pdf" {
		return nil
	}

	var args []string
	if s.opts.PDFEngine != "" {
		args = append(args, "--pdf-engine="+s.opts.PDFEngine)
	}
	if s.opts.PDFMargin != "" {
		args = append(args, "-V", "geometry:margin="+s.opts.PDFMargin)
	}
	return args
}

func (s *conversionService) conversionFailed(err error) error {
	convErr := domain.NewConversionError(err)
	s.logger.Error("pandoc conversion failed",
		"converter", s.converter.Name(),
		"error", err,
	)
	return convErr
}
