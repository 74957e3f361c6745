package view

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTemplate = errors.New("view has no template")
	ErrDestroyed       = errors.New("view is destroyed")
)

// MissingTemplateError is returned when a view without a template is
// rendered. It is a configuration defect of the view, not a runtime
// condition worth retrying.
type MissingTemplateError struct {
	View *View
}

func (e *MissingTemplateError) Error() string {
	if e == nil || e.View == nil {
		return ErrMissingTemplate.Error()
	}

	return fmt.Sprintf("view %s: %v", e.View.ID(), ErrMissingTemplate)
}

func (e *MissingTemplateError) Is(target error) bool {
	return target == ErrMissingTemplate
}
