package errorhelpers

import (
	"errors"
	"fmt"
)

// LabeledError ties an error to the item (package, record, file) it happened
// on, so that batch commands can keep going and report failures per item.
type LabeledError struct {
	label string
	err   error
}

// Error returns the error as a message string (to implement the error
// interface).
func (l LabeledError) Error() string {
	return fmt.Sprintf("%s: %s", l.label, l.err.Error())
}

// Label returns the label for the error.
func (l LabeledError) Label() string {
	return l.label
}

// Unwrap returns the underlying error.
func (l LabeledError) Unwrap() error {
	return l.err
}

func LabelError(label string, err error) error {
	if err == nil {
		return nil
	}

	return &LabeledError{label, err}
}

// Labels returns the labels of every LabeledError found in err, looking
// inside errors combined with errors.Join.
func Labels(err error) []string {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var labels []string
		for _, e := range joined.Unwrap() {
			labels = append(labels, Labels(e)...)
		}
		return labels
	}

	var labeled *LabeledError
	if errors.As(err, &labeled) {
		return []string{labeled.Label()}
	}
	return nil
}
