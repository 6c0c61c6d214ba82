package toast

import (
	"errors"
	"fmt"
)

// ErrElementNotFound is wrapped by every ElementError.
var ErrElementNotFound = errors.New("element not found")

// Element roles reported in ElementError.
const (
	RoleContainer = "container"
	RoleBody      = "body"
)

// ElementError reports a missing element at bind time.
type ElementError struct {
	ID   string
	Role string
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("toast %s element %q: %s", e.Role, e.ID, ErrElementNotFound)
}

func (e *ElementError) Unwrap() error {
	return ErrElementNotFound
}
