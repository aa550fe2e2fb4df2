package cli

import (
	"errors"
	"fmt"

	"github.com/clightning4j/reckless/pkg/domain/repository"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable
// hints. Each error kind of the indexing pipeline keeps a distinguishable
// message. Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var acqErr *repository.AcquisitionError
	if errors.As(err, &acqErr) {
		return NewCLIError(
			"repository acquisition failed",
			"Check the URL, your network connection, and that the target path does not already exist",
			err,
		)
	}

	var fsErr *repository.FilesystemError
	if errors.As(err, &fsErr) {
		return NewCLIError(
			"indexing aborted by a filesystem error",
			fmt.Sprintf("Verify that %s exists and is readable", fsErr.Path),
			err,
		)
	}

	var confErr *repository.ConfParseError
	if errors.As(err, &confErr) {
		return NewCLIError(
			"indexing aborted by a broken plugin configuration",
			fmt.Sprintf("Fix or remove %s, then retry", confErr.Path),
			err,
		)
	}

	if errors.Is(err, repository.ErrPluginNotFound) {
		return NewCLIError("plugin not found", "Run 'reckless list' to see the indexed plugins", err)
	}

	return err
}
