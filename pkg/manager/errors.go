package manager

import (
	"fmt"

	"github.com/jingkaihe/skillmgr/pkg/units"
)

// LoadError is returned when discovery or config loading fails. The manager
// keeps its previous state and reports the error through Err until the next
// successful reload.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("failed to load workspace: %v", e.Err) }

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error { return e.Err }

// Cause returns the underlying error for github.com/pkg/errors
func (e *LoadError) Cause() error { return e.Err }

// RelocationError reports a unit whose files could not be moved between the
// enabled and disabled roots. The in-memory state is not rolled back.
type RelocationError struct {
	Kind   units.Kind
	Name   string
	Enable bool
	Err    error
}

func (e *RelocationError) Error() string {
	action := "disable"
	if e.Enable {
		action = "enable"
	}
	return fmt.Sprintf("failed to %s %s '%s': %v", action, e.Kind, e.Name, e.Err)
}

// Unwrap returns the underlying error
func (e *RelocationError) Unwrap() error { return e.Err }

// Cause returns the underlying error for github.com/pkg/errors
func (e *RelocationError) Cause() error { return e.Err }
