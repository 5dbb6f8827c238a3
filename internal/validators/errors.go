package validators

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrUnsupportedType  = errors.New("unsupported type for validation")
	ErrUnknownField     = errors.New("unknown field for validation")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
)

// FieldErrors maps JSON field names to human-readable messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := slices.Sorted(maps.Keys(e))

	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, e[key])
	}
	return strings.Join(messages, " ")
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalidRequest
}
