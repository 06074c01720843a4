package catalog

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrCatalogUnavailable is returned when the content store fails on either the
// count or the data query. Callers should answer with a 5xx and must not
// render partial pagination.
var ErrCatalogUnavailable = errors.New("catalog temporarily unavailable")

// ValidationError reports bad or out-of-range input detected before any store
// call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrInvalidFilter is returned when a filter is requested for an entity type
// the catalog does not know.
var ErrInvalidFilter error = &ValidationError{Field: "entity", Reason: "unknown entity type"}
