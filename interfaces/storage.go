package interfaces

import (
	"io"
	"os"
)

// FileStore persists uploaded file contents.
type FileStore interface {
	Save(name string, r io.Reader, limit int64) (path string, size int64, err error)
	Open(path string) (*os.File, os.FileInfo, error)
	Remove(path string) error
}
