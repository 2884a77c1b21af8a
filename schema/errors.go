package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes. Wrap them with %w and test with errors.Is.
var (
	// ErrSourceUnavailable means the remote statistics query failed.
	ErrSourceUnavailable = errors.New("stat source unavailable")

	// ErrSchemaViolation means a fetched table does not have the expected shape.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrPersistence means the output location could not be created or written.
	ErrPersistence = errors.New("persistence failure")

	// ErrMissingTeam means a player row has no matching team row under the error policy.
	ErrMissingTeam = errors.New("missing team row")
)

// SchemaError reports which columns a table is missing.
type SchemaError struct {
	Table   string
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table is missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is match ErrSchemaViolation.
func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}
