package repository

import (
	"errors"
	"fmt"
)

// ErrPluginNotFound reports a name-based lookup that matched no plugin.
var ErrPluginNotFound = errors.New("plugin not found")

// ErrNotIndexed reports an operation that requires a successfully
// initialized repository.
var ErrNotIndexed = errors.New("repository is not indexed")

// AcquisitionError reports a failed fetch of the repository contents. No
// plugins are indexed when acquisition fails.
type AcquisitionError struct {
	URL string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire repository %s: %v", e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// FilesystemError reports a directory that cannot be enumerated or a file
// that cannot be read during indexing. It aborts the entire indexing pass.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error at %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ConfParseError reports a configuration file that exists but cannot be
// parsed or validated. A broken configuration is a repository-level defect,
// not a per-plugin skip, so it aborts the indexing pass.
type ConfParseError struct {
	Path string
	Err  error
}

func (e *ConfParseError) Error() string {
	return fmt.Sprintf("broken plugin configuration %s: %v", e.Path, e.Err)
}

func (e *ConfParseError) Unwrap() error {
	return e.Err
}
