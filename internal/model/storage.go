package model

import (
	"context"
	"io"
)

// Storage keeps binary objects such as profile images.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}
