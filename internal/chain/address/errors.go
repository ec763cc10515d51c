package address

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrChecksumMismatch is returned for a syntactically valid address whose
// character casing does not match its checksum.
var ErrChecksumMismatch = errors.New("address checksum mismatch")

// FormatError is returned for input that is not a syntactically valid
// address in the expected encoding.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid address format %q: %s", e.Input, e.Reason)
}

// IsFormatError reports whether err is a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
