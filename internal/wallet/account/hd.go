package account

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

// CoinType is the registered BIP44 coin type for the network.
const CoinType uint32 = 313

// FromSeed derives the account at m/44'/313'/0'/0/index from a BIP32
// master seed. Derivation is deterministic: the same seed and index always
// yield the same key. Intermediate key material is wiped before returning.
func FromSeed(seed []byte, index uint32) (*Account, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key from seed")
	}

	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + CoinType,
		bip32.FirstHardenedChild,
		0,
		index,
	}

	key := masterKey
	for depth, childIndex := range path {
		next, err := key.NewChildKey(childIndex)
		zeroize(key.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at depth %d", depth)
		}
		key = next
	}

	acct, err := FromPrivateKey(key.Key)
	zeroize(key.Key)
	if err != nil {
		return nil, err
	}

	return acct, nil
}
