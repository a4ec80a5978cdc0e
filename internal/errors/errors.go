// Package errors provides explicit, human-readable error types for dbinit.
// Every error carries a Reason and a Suggestion so a failed bootstrap can be
// fixed without reading the source.
package errors

import (
	stderrors "errors"
	"fmt"
)

// InitError is the base error type for all dbinit errors.
type InitError struct {
	Code       ErrorCode
	Message    string
	Reason     string
	Suggestion string
	Cause      error
}

// ErrorCode represents the category of error for exit code mapping.
type ErrorCode int

const (
	CodeConfig     ErrorCode = 1
	CodeFilesystem ErrorCode = 2
	CodeDatabase   ErrorCode = 3
	CodeInternal   ErrorCode = 4
)

func (e *InitError) Error() string {
	msg := e.Message
	if e.Reason != "" {
		msg = fmt.Sprintf("%s\nReason: %s", msg, e.Reason)
	}
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s\nSuggestion: %s", msg, e.Suggestion)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s\nCaused by: %v", msg, e.Cause)
	}
	return msg
}

func (e *InitError) Unwrap() error {
	return e.Cause
}

// Category returns the exit-code category of the error.
func (e *InitError) Category() ErrorCode {
	return e.Code
}

type categorized interface {
	Category() ErrorCode
}

// ExitCode maps an error to the process exit code.
// nil maps to 0; errors without a category map to CodeInternal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return int(CodeOf(err))
}

// CodeOf returns the category of err, or CodeInternal if err has none.
func CodeOf(err error) ErrorCode {
	var c categorized
	if stderrors.As(err, &c) {
		return c.Category()
	}
	return CodeInternal
}

// NewInvalidConfig is returned when a configuration value cannot be used.
func NewInvalidConfig(field, reason string) *InitError {
	return &InitError{
		Code:       CodeConfig,
		Message:    "invalid configuration",
		Reason:     fmt.Sprintf("field '%s': %s", field, reason),
		Suggestion: "run 'dbinit config init' for an annotated example, or 'dbinit doctor'",
	}
}

// NewConfigUnreadable is returned when a config file exists but cannot be
// read or decoded.
func NewConfigUnreadable(path string, cause error) *InitError {
	return &InitError{
		Code:       CodeConfig,
		Message:    fmt.Sprintf("cannot load configuration: %s", path),
		Reason:     "the file is not readable or is not valid YAML",
		Suggestion: "fix the file or point --config at another one",
		Cause:      cause,
	}
}

// ErrUnknownEngine is returned when the configured driver is not registered.
type ErrUnknownEngine struct {
	InitError
	Driver    string
	Available []string
}

// NewUnknownEngine creates a new ErrUnknownEngine.
func NewUnknownEngine(driver string, available []string) *ErrUnknownEngine {
	return &ErrUnknownEngine{
		InitError: InitError{
			Code:       CodeConfig,
			Message:    fmt.Sprintf("unknown database driver: %s", driver),
			Reason:     fmt.Sprintf("registered drivers: %v", available),
			Suggestion: "set database.driver (or --driver) to one of the registered drivers",
		},
		Driver:    driver,
		Available: available,
	}
}

// NewDirectoryFailed is returned when the data directory cannot be created.
func NewDirectoryFailed(dir string, cause error) *InitError {
	return &InitError{
		Code:       CodeFilesystem,
		Message:    fmt.Sprintf("cannot create data directory: %s", dir),
		Reason:     "the directory or one of its parents could not be created",
		Suggestion: "check permissions on the parent directory or set database.dir",
		Cause:      cause,
	}
}

// NewFileAccessFailed is returned when the database file cannot be written.
func NewFileAccessFailed(path string, cause error) *InitError {
	return &InitError{
		Code:       CodeFilesystem,
		Message:    fmt.Sprintf("cannot write database file: %s", path),
		Reason:     "the file or its directory is not writable by this process",
		Suggestion: "check permissions, or set database.dir and database.file to a writable location",
		Cause:      cause,
	}
}

// NewWriteFailed is returned when a generated file cannot be written.
func NewWriteFailed(path string, cause error) *InitError {
	return &InitError{
		Code:       CodeFilesystem,
		Message:    fmt.Sprintf("cannot write file: %s", path),
		Reason:     "the file or its directory is not writable by this process",
		Suggestion: "choose another output directory with --output",
		Cause:      cause,
	}
}

// NewFileExists is returned when a generated file would overwrite an existing one.
func NewFileExists(path string) *InitError {
	return &InitError{
		Code:       CodeFilesystem,
		Message:    fmt.Sprintf("file already exists: %s", path),
		Reason:     "existing files are never overwritten silently",
		Suggestion: "remove the file, choose another --output directory, or pass --force where supported",
	}
}

// ErrScriptUnreadable is returned when the SQL script cannot be read.
type ErrScriptUnreadable struct {
	InitError
	Path string
}

// NewScriptUnreadable creates a new ErrScriptUnreadable.
func NewScriptUnreadable(path string, cause error) *ErrScriptUnreadable {
	return &ErrScriptUnreadable{
		InitError: InitError{
			Code:       CodeFilesystem,
			Message:    fmt.Sprintf("cannot read SQL script: %s", path),
			Reason:     "the script file is missing or not readable",
			Suggestion: "set script.path (or --script), or use --bundled; 'dbinit script export' writes the bundled script",
			Cause:      cause,
		},
		Path: path,
	}
}

// NewEmptyScript is returned when a script holds no executable statements.
func NewEmptyScript(source string) *InitError {
	return &InitError{
		Code:       CodeConfig,
		Message:    fmt.Sprintf("SQL script has no statements: %s", source),
		Reason:     "only whitespace and comments were found",
		Suggestion: "check that script.path points at the intended file",
	}
}

// NewMalformedScript is returned when a script cannot be tokenized.
func NewMalformedScript(source string, cause error) *InitError {
	return &InitError{
		Code:       CodeDatabase,
		Message:    fmt.Sprintf("cannot split SQL script: %s", source),
		Reason:     "the script contains an unterminated string, identifier or comment",
		Suggestion: "run 'dbinit plan' to locate the failing statement",
		Cause:      cause,
	}
}

// ErrOpenFailed is returned when the database cannot be opened or reached.
type ErrOpenFailed struct {
	InitError
	Engine string
	Target string
}

// NewOpenFailed creates a new ErrOpenFailed.
func NewOpenFailed(engine, target string, cause error) *ErrOpenFailed {
	return &ErrOpenFailed{
		InitError: InitError{
			Code:       CodeDatabase,
			Message:    fmt.Sprintf("cannot open %s database: %s", engine, target),
			Reason:     "the driver rejected the target or the database is unreachable",
			Suggestion: "check database.dir/database.file or database.dsn, then run 'dbinit doctor'",
			Cause:      cause,
		},
		Engine: engine,
		Target: target,
	}
}

// ErrExecFailed is returned when the script fails to execute.
type ErrExecFailed struct {
	InitError
	Source string
	// Statement is the 1-based index of the failing statement, or 0 when the
	// engine executed the script as one batch.
	Statement int
}

// NewExecFailed creates a new ErrExecFailed.
func NewExecFailed(source string, statement int, cause error) *ErrExecFailed {
	reason := "the database rejected the script"
	if statement > 0 {
		reason = fmt.Sprintf("the database rejected statement %d", statement)
	}
	return &ErrExecFailed{
		InitError: InitError{
			Code:       CodeDatabase,
			Message:    fmt.Sprintf("SQL script failed: %s", source),
			Reason:     reason,
			Suggestion: "fix the failing statement; run 'dbinit inspect' to see what the database holds now",
			Cause:      cause,
		},
		Source:    source,
		Statement: statement,
	}
}

// NewCommitFailed is returned when the final commit fails.
func NewCommitFailed(cause error) *InitError {
	return &InitError{
		Code:       CodeDatabase,
		Message:    "commit failed",
		Reason:     "the database refused to persist the script's changes",
		Suggestion: "check that the database file is writable and not locked by another process",
		Cause:      cause,
	}
}
