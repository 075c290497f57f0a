package command

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPermitted means the caller may not run (or see help for) a command.
	ErrNotPermitted = errors.New("not permitted")
	// ErrDisabled means the command is switched off for this deployment.
	ErrDisabled = errors.New("command disabled")
)

// MissingPermissionsError is returned by UserPermissions when the caller
// holds none of Perms. It matches ErrNotPermitted.
type MissingPermissionsError struct {
	Perms []int64
}

func (e *MissingPermissionsError) Error() string {
	return "missing permissions: " + DescribePermissions(e.Perms...)
}

func (e *MissingPermissionsError) Unwrap() error { return ErrNotPermitted }

// UsageError reports arguments a command could not make sense of.
type UsageError struct {
	Command Command
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", QualifiedName(e.Command), e.Reason)
}

// notPermitted turns a failed or refused check into the error returned to the caller.
func notPermitted(err error) error {
	switch {
	case err == nil:
		return ErrNotPermitted
	case errors.Is(err, ErrDisabled), errors.Is(err, ErrNotPermitted):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrNotPermitted, err)
	}
}
