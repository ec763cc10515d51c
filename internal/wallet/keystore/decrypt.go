package keystore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"github.com/zilpool/go-zil-wallet/internal/wallet/account"
)

// Decrypt recovers the account from a keystore document. A wrong
// passphrase surfaces as ErrMACMismatch before any decryption is
// attempted.
func Decrypt(data []byte, passphrase []byte) (*account.Account, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse keystore file")
	}

	return DecryptFile(&file, passphrase)
}

// DecryptFile recovers the account from an already-parsed keystore file.
func DecryptFile(file *File, passphrase []byte) (*account.Account, error) {
	if file.Version != Version {
		return nil, errors.Errorf("unsupported keystore version %d", file.Version)
	}
	if file.Crypto.Cipher != "aes-128-ctr" {
		return nil, errors.Errorf("unsupported cipher %q", file.Crypto.Cipher)
	}

	salt, err := hex.DecodeString(file.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "invalid salt encoding")
	}
	iv, err := hex.DecodeString(file.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "invalid IV encoding")
	}
	ciphertext, err := hex.DecodeString(file.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ciphertext encoding")
	}
	storedMAC, err := hex.DecodeString(file.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "invalid MAC encoding")
	}

	derivedKey, err := deriveKey(file, passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer zeroize(derivedKey)

	if !hmac.Equal(computeMAC(derivedKey[16:32], ciphertext), storedMAC) {
		return nil, ErrMACMismatch
	}

	privateKey, err := applyAES128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return nil, err
	}
	defer zeroize(privateKey)

	acct, err := account.FromPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	if file.Address != "" && file.Address != acct.Address().Hex() {
		return nil, errors.New("keystore address does not match the decrypted key")
	}

	return acct, nil
}

func deriveKey(file *File, passphrase, salt []byte) ([]byte, error) {
	params := file.Crypto.KDFParams
	dkLen := params.DKLen
	if dkLen == 0 {
		dkLen = 32
	}

	switch file.Crypto.KDF {
	case KDFScrypt:
		key, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, dkLen)
		return key, errors.Wrap(err, "scrypt derivation failed")
	case KDFPBKDF2:
		iterations := params.C
		if iterations == 0 {
			iterations = defaultPBKDF2Iterations
		}
		return pbkdf2.Key(passphrase, salt, iterations, dkLen, sha256.New), nil
	default:
		return nil, errors.Errorf("unsupported kdf %q", file.Crypto.KDF)
	}
}
