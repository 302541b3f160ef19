package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-extract-books/models"
)

// DualWriter outputs the TypeScript statement and a JSON copy side by side.
type DualWriter struct {
	tsWriter   *TSWriter
	jsonWriter *JSONWriter
	mu         sync.Mutex
}

// NewDualWriter creates both underlying writers.
func NewDualWriter(tsFilename, jsonFilename string) (*DualWriter, error) {
	if tsFilename == jsonFilename {
		return nil, fmt.Errorf("dual output needs distinct files, got %q twice", tsFilename)
	}

	tsWriter, err := NewTSWriter(tsFilename)
	if err != nil {
		return nil, fmt.Errorf("create ts writer: %w", err)
	}

	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		tsWriter.Close()
		return nil, fmt.Errorf("create json writer: %w", err)
	}

	return &DualWriter{
		tsWriter:   tsWriter,
		jsonWriter: jsonWriter,
	}, nil
}

// Write hands books to both writers.
func (dw *DualWriter) Write(books []*models.Book) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.tsWriter.Write(books); err != nil {
		return fmt.Errorf("ts write failed: %w", err)
	}
	if err := dw.jsonWriter.Write(books); err != nil {
		return fmt.Errorf("json write failed: %w", err)
	}
	return nil
}

// Close closes both writers.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var errs []error
	if err := dw.tsWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("ts close failed: %w", err))
	}
	if err := dw.jsonWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("json close failed: %w", err))
	}
	return errors.Join(errs...)
}

// Validate validates both output files.
func (dw *DualWriter) Validate() error {
	var errs []error
	if err := dw.tsWriter.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := dw.jsonWriter.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Files returns both output paths.
func (dw *DualWriter) Files() []string {
	return append(dw.tsWriter.Files(), dw.jsonWriter.Files()...)
}
