package replay

import (
	"errors"
	"fmt"
)

var (
	ErrInputFormat    = errors.New("[replay] input format is incorrect")
	ErrFileNotFound   = errors.New("[replay] file is not found")
	ErrCommandFormat  = errors.New("[replay] command does not follow format")
	ErrIntegerRange   = errors.New("[replay] integer out of range")
	ErrTreeInvalid    = errors.New("[replay] os-rb property is broken")
	ErrResultMismatch = errors.New("[replay] result is incorrect")
)

// FormatLegend is printed after a tree dump.
const FormatLegend = "Tree format: ([R or B] item,(left node),(right node))"

// CommandError reports the failing line of a replay.
type CommandError struct {
	Line    int
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	switch {
	case errors.Is(e.Err, ErrCommandFormat):
		return fmt.Sprintf("ERROR: Command '%s' does not follow format.", e.Command)
	case errors.Is(e.Err, ErrIntegerRange):
		return fmt.Sprintf("ERROR: Integer should be in range %d-%d.", MinItem, MaxItem)
	case errors.Is(e.Err, ErrTreeInvalid):
		return fmt.Sprintf("ERROR: Upon executing command '%s', OS_RB property is broken.", e.Command)
	case errors.Is(e.Err, ErrResultMismatch):
		return fmt.Sprintf("ERROR: result of executing command '%s' is incorrect.", e.Command)
	default:
	}
	return fmt.Sprintf("ERROR: line %d command '%s': %v", e.Line, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// FileError reports a replay file that cannot be opened.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if errors.Is(e.Err, ErrFileNotFound) {
		return fmt.Sprintf("ERROR: File '%s' is not found.", e.Path)
	}
	return fmt.Sprintf("ERROR: File '%s' cannot be opened: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ErrorMessage renders err the way the replay tool prints it.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInputFormat) {
		return "ERROR: Input format is incorrect."
	}
	return err.Error()
}
