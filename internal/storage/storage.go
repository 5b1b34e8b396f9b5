package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/garrettladley/whoopy/internal/oauth"
)

// ErrNotFound is returned when no token has been persisted. It matches
// oauth.ErrNoToken under errors.Is.
var ErrNotFound = fmt.Errorf("stored token not found: %w", oauth.ErrNoToken)

// Store persists the single token of a client.
type Store interface {
	oauth.Store

	// Delete removes the persisted token. Deleting a missing token is not an error.
	Delete(ctx context.Context) error

	Close() error
}

type Op string

const (
	OpOpen   Op = "open"
	OpLoad   Op = "load"
	OpSave   Op = "save"
	OpDelete Op = "delete"
)

// StorageError is a failure to read or write the persisted token.
type StorageError struct {
	Op       Op
	Backend  string
	Location string
	Err      error
}

func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString("storage: ")
	b.WriteString(string(e.Op))
	if e.Backend != "" {
		b.WriteString(" ")
		b.WriteString(e.Backend)
	}
	if e.Location != "" {
		b.WriteString(" ")
		b.WriteString(e.Location)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StorageError) Unwrap() error { return e.Err }
