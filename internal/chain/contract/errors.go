package contract

import (
	"fmt"

	"github.com/pkg/errors"
)

// EncodingError reports an argument list that does not match the declared
// schema: wrong arity or an incompatible value at a position. Position is
// zero-based; for arity mismatches it is the index at which the lists
// diverge.
type EncodingError struct {
	Position int
	Expected string
	Got      string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("abi encoding error at position %d: expected %s, got %s", e.Position, e.Expected, e.Got)
}

// AsEncodingError unwraps err into an EncodingError, or returns nil.
func AsEncodingError(err error) *EncodingError {
	var ee *EncodingError
	if errors.As(err, &ee) {
		return ee
	}
	return nil
}
