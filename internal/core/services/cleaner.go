package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
	"github.com/custodia-labs/xmlzip/internal/logger"
)

// Ensure Cleaner implements the interface.
var _ driving.Cleaner = (*Cleaner)(nil)

// Cleaner removes run artifacts so benchmarks can be repeated.
type Cleaner struct{}

// NewCleaner creates a cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes dir recursively and each output file.
func (c *Cleaner) Clean(dir string, outputs ...string) error {
	var errs []error
	if dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", dir, err))
		} else {
			logger.Debug("Removed directory", "dir", dir)
		}
	}
	for _, path := range outputs {
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
			continue
		}
		logger.Debug("Removed file", "file", path)
	}
	return errors.Join(errs...)
}
