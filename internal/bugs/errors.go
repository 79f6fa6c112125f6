package bugs

import "fmt"

// InputError is a problem with what the user asked for: an empty message,
// an unknown label or milestone, or conflicting options.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a bug number that does not exist in the project.
type NotFoundError struct {
	Bug int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Issue %d not found", e.Bug)
}

// Result is the outcome for one bug of a multi-bug command. Err is a
// per-bug diagnostic; the remaining bugs are still processed.
type Result struct {
	Bug    int
	Output string
	Err    error
}

// String describes a Result for printing.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("bug %d: %v", r.Bug, r.Err)
	}
	return r.Output
}
