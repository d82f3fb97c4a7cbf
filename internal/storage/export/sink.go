// Package export writes CSV snapshots of dashboard tables to a local
// directory or an S3-compatible bucket.
package export

import (
	"context"
	"fmt"
)

// Sink defines the interface for export storage backends
type Sink interface {
	// Name identifies the backend in logs and metrics
	Name() string

	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Config selects and configures a sink.
type Config struct {
	Type string // "localfs" or "s3"
	Path string
	S3   S3Config
}

// New creates the sink named by cfg.Type.
func New(cfg Config) (Sink, error) {
	switch cfg.Type {
	case "", "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown export type %q", cfg.Type)
	}
}
