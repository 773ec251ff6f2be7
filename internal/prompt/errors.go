package prompt

import "fmt"

// MissingInputError indicates a required role with no resolved document.
type MissingInputError struct {
	Mode Mode
	Role Role
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("mode %s requires a %s input and none was supplied or discoverable", e.Mode, e.Role)
}

// AssemblyError indicates a template that could not be assembled.
type AssemblyError struct {
	Message string
	Cause   error
}

func (e *AssemblyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template assembly: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template assembly: %s", e.Message)
}

func (e *AssemblyError) Unwrap() error {
	return e.Cause
}
