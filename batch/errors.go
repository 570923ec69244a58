package batch

import (
	"fmt"
)

// ImportError is returned when an input file cannot be read or converted.
// The file is skipped.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Cause() error { return e.Err }

// ExportError is returned when an extracted skeleton cannot be written.
// Only that output is skipped.
type ExportError struct {
	Path     string
	Skeleton string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s (%s): %v", e.Path, e.Skeleton, e.Err)
}

func (e *ExportError) Cause() error { return e.Err }
