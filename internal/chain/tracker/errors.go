package tracker

import (
	"fmt"

	"github.com/pkg/errors"
)

// PollingError reports that the tracker exhausted its transport retry
// budget while waiting for a receipt. The transaction itself may still be
// mined; only the local poll loop gave up.
type PollingError struct {
	TxID     string
	Attempts int
	Err      error
}

func (e *PollingError) Error() string {
	return fmt.Sprintf("polling for %s failed after %d attempts: %v", e.TxID, e.Attempts, e.Err)
}

func (e *PollingError) Unwrap() error { return e.Err }

// IsPollingError reports whether err is a PollingError.
func IsPollingError(err error) bool {
	var pe *PollingError
	return errors.As(err, &pe)
}
