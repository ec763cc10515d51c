package schnorr

import "github.com/pkg/errors"

// SigningError indicates malformed key material or an inability to produce a
// signature. Verification failures are never errors; they surface as a false
// return from Verify.
type SigningError struct {
	Reason string
}

func (e *SigningError) Error() string {
	return "signing error: " + e.Reason
}

// IsSigningError reports whether err is a SigningError.
func IsSigningError(err error) bool {
	var se *SigningError
	return errors.As(err, &se)
}
