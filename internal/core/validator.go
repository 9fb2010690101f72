package core

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"aquareport/internal/types"
)

// msgParamsMissing is the localized aggregate message returned when required
// request fields are absent. Individual field names ride along in the error
// details for the client's benefit.
const msgParamsMissing = "必要なパラメータが不足しています"

// Validator wraps go-playground/validator with the service's conventions:
// JSON tag names in error output and a single aggregate invalid_argument
// error per failed struct.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a new Validator. Field names reported in validation
// errors use the struct's json tags so they match the wire contract.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// ValidateStruct checks the struct's validate tags and returns nil on success
// or a single aggregate *types.AppError (invalid_argument) naming the failed
// fields in its details. Validation runs entirely locally, before any network
// call is considered.
func (v *Validator) ValidateStruct(s any) *types.AppError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation failure (e.g. a non-struct argument). This is a
		// programming error, not client input.
		return types.NewAppError(types.ErrCodeInternal, "validation could not be performed", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}

	return types.NewAppErrorWithDetails(
		types.ErrCodeInvalidArgument,
		msgParamsMissing,
		err,
		map[string]any{"fields": fields},
	)
}
