package workflow

import (
	"errors"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
)

// OutcomeKind classifies what the last operation produced for the view
type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "success"
	OutcomeValidationErrors  OutcomeKind = "validation_errors"
	OutcomeSaveError         OutcomeKind = "save_error"
	OutcomeEmptyResult       OutcomeKind = "empty_result"
	OutcomePreconditionError OutcomeKind = "precondition_error"
	OutcomeResults           OutcomeKind = "results"
	OutcomeLoaded            OutcomeKind = "loaded"
)

// DefaultSaveError is shown when the backend gives no message
const DefaultSaveError = "No se pudo guardar los cambios"

// Outcome is the resolved result of the last operation
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// saveErrorMessage returns the backend message verbatim, or the fallback
func saveErrorMessage(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return DefaultSaveError
}
