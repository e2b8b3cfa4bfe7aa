// Package catalog implements the batch tools that work over directories of
// captures: scanning, hashing, metadata caching, duplicate and version search.
package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/maple-msb/internal/logger"
)

// FileError records a file that a batch operation skipped.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

func log() *zap.Logger {
	return logger.Named("catalog")
}
