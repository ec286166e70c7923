package form

import (
	"errors"
	"fmt"

	"github.com/trattoria-luca/service-booking/internal/domain/validation"
)

var (
	ErrStepIncomplete = errors.New("step incomplete")
	ErrWrongStep      = errors.New("action not allowed on this step")
	ErrNoPackage      = errors.New("no package selected")
	ErrUnknownPackage = errors.New("unknown package")
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownArea    = errors.New("unknown venue area")
	ErrTerminalStep   = errors.New("last step reached, submit instead")
)

// IncompleteStepError is returned by a refused Advance or Submit.
type IncompleteStepError struct {
	Step       Step
	Violations validation.Violations
}

func (e *IncompleteStepError) Error() string {
	return fmt.Sprintf("step %s incomplete: %s", e.Step, e.Violations.Error())
}

// Is matches ErrStepIncomplete.
func (e *IncompleteStepError) Is(target error) bool {
	return target == ErrStepIncomplete
}
