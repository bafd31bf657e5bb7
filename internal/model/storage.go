package model

import (
	"context"
	"io"
)

// ImageStorage persists meal photos referenced by food entries.
type ImageStorage interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
