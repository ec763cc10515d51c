package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"

	"github.com/zilpool/go-zil-wallet/internal/wallet/account"
)

const (
	saltSize = 32
	ivSize   = 16 // AES-128-CTR
)

// Encrypt produces a keystore file for the account's private key using
// scrypt and AES-128-CTR. The exported key copy is wiped before returning.
func Encrypt(acct *account.Account, passphrase []byte) (*File, error) {
	privateKey, err := acct.PrivateKeyBytes()
	if err != nil {
		return nil, err
	}
	defer zeroize(privateKey)

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	params := DefaultScryptParams()
	params.Salt = hex.EncodeToString(salt)

	derivedKey, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive encryption key")
	}
	defer zeroize(derivedKey)

	ciphertext, err := applyAES128CTR(derivedKey[:16], iv, privateKey)
	if err != nil {
		return nil, err
	}

	mac := computeMAC(derivedKey[16:32], ciphertext)

	file := &File{
		Address: acct.Address().Hex(),
		ID:      uuid.New().String(),
		Version: Version,
	}
	file.Crypto.Cipher = "aes-128-ctr"
	file.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	file.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	file.Crypto.KDF = KDFScrypt
	file.Crypto.KDFParams = params
	file.Crypto.MAC = hex.EncodeToString(mac)

	return file, nil
}

// applyAES128CTR runs AES-128 in CTR mode; encryption and decryption are
// the same operation.
func applyAES128CTR(key, iv, input []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	output := make([]byte, len(input))
	cipher.NewCTR(block, iv).XORKeyStream(output, input)
	return output, nil
}

// computeMAC binds the derived key to the ciphertext:
// SHA256(derivedKey[16:32] || ciphertext).
func computeMAC(keyTail, ciphertext []byte) []byte {
	h := sha256.New()
	h.Write(keyTail)
	h.Write(ciphertext)
	return h.Sum(nil)
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
