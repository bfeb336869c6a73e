package conversion

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pandochost/internal/domain"
	"pandochost/internal/domain/models"
)

// Client-facing validation messages
const (
	MsgMissingContents = "Missing required field: 'contents'"
	MsgMissingFormats  = "Missing required fields: 'input_format' or 'output_format'"
	MsgInvalidFormat   = "Invalid format name"
)

// formatPattern matches converter format names, including extension
// modifiers such as "markdown+smart-raw_html".
var formatPattern = regexp.MustCompile(`^[a-z0-9_]+([+-][a-z0-9_]+)*$`)

// validateRequest fails fast before the converter is invoked.
// Contents is checked first so a request missing everything reports contents.
func validateRequest(req *models.ConversionRequest) error {
	if req == nil {
		return domain.NewValidationError(MsgMissingContents)
	}

	if err := validation.Validate(req.Contents, validation.Required); err != nil {
		return domain.NewValidationError(MsgMissingContents)
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.InputFormat, validation.Required),
		validation.Field(&req.OutputFormat, validation.Required),
	)
	if err != nil {
		return domain.NewValidationError(MsgMissingFormats)
	}

	err = validation.ValidateStruct(req,
		validation.Field(&req.InputFormat, validation.Match(formatPattern)),
		validation.Field(&req.OutputFormat, validation.Match(formatPattern)),
	)
	if err != nil {
		return domain.NewValidationError(MsgInvalidFormat + ": " + err.Error())
	}

	return nil
}
