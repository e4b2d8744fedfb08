package main

import "fmt"

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

const (
	// exitFailed means some expression failed to parse or evaluate.
	exitFailed = 1
	// exitUsage means bad flags or unreadable input.
	exitUsage = 2
)

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
