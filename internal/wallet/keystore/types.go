// Package keystore reads and writes passphrase-encrypted private key files
// in the keystore v3 layout: a KDF-derived key encrypts the private scalar
// with AES-128-CTR, and a MAC binds the derived key to the ciphertext.
package keystore

import "github.com/pkg/errors"

// Version is the keystore format version.
const Version = 3

// KDF identifiers accepted in keystore files.
const (
	KDFScrypt = "scrypt"
	KDFPBKDF2 = "pbkdf2"
)

// ErrMACMismatch is returned when the stored MAC does not match the
// ciphertext, i.e. the passphrase is wrong or the file is corrupt.
var ErrMACMismatch = errors.New("keystore MAC mismatch: wrong passphrase or corrupted file")

// File is the on-disk keystore document.
type File struct {
	Address string `json:"address"`
	ID      string `json:"id"`
	Version int    `json:"version"`
	Crypto  Crypto `json:"crypto"`
}

// Crypto is the encryption envelope of a keystore file.
type Crypto struct {
	Cipher       string       `json:"cipher"`
	Ciphertext   string       `json:"ciphertext"`
	CipherParams CipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

// CipherParams holds the AES-CTR initialization vector.
type CipherParams struct {
	IV string `json:"iv"`
}

// KDFParams carries the parameters of whichever KDF produced the
// encryption key.
type KDFParams struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`

	// scrypt
	N int `json:"n,omitempty"`
	R int `json:"r,omitempty"`
	P int `json:"p,omitempty"`

	// pbkdf2
	C int `json:"c,omitempty"`
}

// DefaultScryptParams returns the cost parameters used for new files.
func DefaultScryptParams() KDFParams {
	return KDFParams{
		DKLen: 32,
		N:     8192,
		R:     8,
		P:     1,
	}
}

// defaultPBKDF2Iterations is the iteration count accepted when decrypting
// pbkdf2 files that omit it.
const defaultPBKDF2Iterations = 262144
