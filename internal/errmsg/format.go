// Package errmsg turns failures into the sentences shown to the user.
package errmsg

import "fmt"

// Op names what the user was trying to do, phrased to follow "Failed to".
type Op string

const (
	OpCatalogLoad  Op = "load track catalog"
	OpRegistryRead Op = "read track registry"
	OpStorageList  Op = "list storage bucket"

	OpRegistryAdd    Op = "add track to registry"
	OpRegistryImport Op = "import tracks into registry"

	OpPlaybackStart  Op = "start playback"
	OpAnalyzerAttach Op = "attach spectrum analyzer"

	OpInitialize Op = "initialize player"
)

// Format returns "Failed to <op>: <err>", or "" for a nil err.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// Error is an error whose message is the user-facing sentence.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string { return Format(e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error, or nil for a nil err.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
