package loader

import "fmt"

// ReadError reports that a single document could not be read or parsed.
// It is recoverable: the document is skipped and the run continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read document %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DirectoryAccessError reports that the document source itself could not be
// listed. It is fatal for the run.
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("failed to access document source %s: %v", e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}
