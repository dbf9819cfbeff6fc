package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTables marks a metadata payload without a recognizable table list.
	ErrNoTables = errors.New("payload has no table list")
	// ErrUnknownConnection is returned for connection ids missing from config.
	ErrUnknownConnection = errors.New("unknown connection")
)

// SchemaFetchError is the single error type returned by FetchSchema.
type SchemaFetchError struct {
	ConnectionID string
	Err          error
}

func (e *SchemaFetchError) Error() string {
	return fmt.Sprintf("schema fetch failed for %q: %v", e.ConnectionID, e.Err)
}

func (e *SchemaFetchError) Unwrap() error { return e.Err }
