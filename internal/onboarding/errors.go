package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSlot   = errors.New("unknown document slot")
	ErrSlotBusy      = errors.New("slot already holds a document or an upload")
	ErrSizeExceeded  = errors.New("size exceeds limit")
	ErrEmptyFile     = errors.New("file is empty")
	ErrNotRetryable  = errors.New("slot is not in a retryable state")
	ErrTrackerClosed = errors.New("upload tracker is closed")
)

// IncompleteError is returned when a submission is requested while one or
// more steps are unsatisfied.
type IncompleteError struct {
	Steps []StepStatus
}

func (e *IncompleteError) Error() string {
	keys := make([]string, len(e.Steps))
	for i, st := range e.Steps {
		keys[i] = st.Key
	}
	return fmt.Sprintf("application incomplete: %s", strings.Join(keys, ", "))
}
