package engine

import (
	"errors"
	"fmt"
)

// ErrScopeNotSelectable is returned when a time series is requested for a scope
// outside the view's selectable scopes
var ErrScopeNotSelectable = errors.New("scope not selectable")

// Error codes attached to a ViewError
const (
	CodeInvalidView        = "INVALID_VIEW"
	CodeScopeNotSelectable = "SCOPE_NOT_SELECTABLE"
	CodeBuildFailed        = "BUILD_FAILED"
	CodeCanceled           = "CANCELED"
)

// ViewError reports a failure to compute one view
type ViewError struct {
	Code string
	View string
	Err  error
}

func (e *ViewError) Error() string {
	if e.View == "" {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("view %q: %s: %v", e.View, e.Code, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

func newViewError(code, view string, err error) *ViewError {
	return &ViewError{Code: code, View: view, Err: err}
}
