package storage

import (
	"context"
)

// Blob is a file ready to be stored remotely
type Blob struct {
	// Path is a local copy of the file
	Path string
	// Data is an optional in-memory copy used by the buffered upload
	Data        []byte
	Folder      string
	Filename    string
	ContentType string
	Size        int64
}

// Object identifies a stored blob
type Object struct {
	// Key is the opaque reference used for later deletion
	Key string
	URL string
}

// Service stores resume files in remote object storage.
type Service interface {
	Store(ctx context.Context, blob Blob) (Object, error)
	Delete(ctx context.Context, key string) error
}
