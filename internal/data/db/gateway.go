package db

import (
	"context"
	"errors"
)

var (
	ErrMissingURI = errors.New("database connection string is not set")
	ErrClosed     = errors.New("database gateway is closed")
)

// Gateway is the lifecycle surface shared by every backend. Each gateway
// connects at most once; the first outcome is kept for the process lifetime.
type Gateway interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
