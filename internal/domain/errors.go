package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// MissingReferenceError reports a material, product or BOM entry that could
// not be resolved. The forecast batch skips the material and continues.
type MissingReferenceError struct {
	Resource string
	ID       int64
}

func (e *MissingReferenceError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("missing %s reference", e.Resource)
	}

	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
