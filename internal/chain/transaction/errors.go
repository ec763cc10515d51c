package transaction

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidFieldError reports a draft field that failed validation. These
// errors are deterministic for a given input and are never retried.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid transaction field %q: %s", e.Field, e.Reason)
}

// AsInvalidField unwraps err into an InvalidFieldError, or returns nil.
func AsInvalidField(err error) *InvalidFieldError {
	var ife *InvalidFieldError
	if errors.As(err, &ife) {
		return ife
	}
	return nil
}
