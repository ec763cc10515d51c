// Package schnorr implements the network's Schnorr signature scheme over
// secp256k1. A signature is a scalar pair (r, s) where r commits to a fresh
// random nonce point and binds the signer's public key and the message:
//
//	Q = k*G
//	r = SHA256(compress(Q) || compress(P) || msg) mod n
//	s = k - r*sk mod n
//
// Verification recomputes Q' = s*G + r*P and checks the challenge matches.
// This is not ECDSA; the two schemes only share the curve.
package schnorr

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ScalarSize is the byte length of each signature scalar.
const ScalarSize = 32

// SignatureSize is the byte length of a serialized signature (r || s).
const SignatureSize = 2 * ScalarSize

// maxSignAttempts bounds nonce redraws when r or s reduce to zero. A single
// redraw is already a ~2^-256 event.
const maxSignAttempts = 32

// Signature is an (r, s) scalar pair. Immutable once created.
type Signature struct {
	r secp256k1.ModNScalar
	s secp256k1.ModNScalar
}

// NewSignature constructs a signature from two scalars.
func NewSignature(r, s *secp256k1.ModNScalar) *Signature {
	var sig Signature
	sig.r.Set(r)
	sig.s.Set(s)
	return &sig
}

// ParseSignature parses a 64-byte r || s serialization. Scalars greater than
// or equal to the group order are rejected.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		return nil, &SigningError{Reason: "signature must be 64 bytes"}
	}

	var sig Signature
	if overflow := sig.r.SetByteSlice(b[:ScalarSize]); overflow {
		return nil, &SigningError{Reason: "signature r scalar exceeds group order"}
	}
	if overflow := sig.s.SetByteSlice(b[ScalarSize:]); overflow {
		return nil, &SigningError{Reason: "signature s scalar exceeds group order"}
	}

	return &sig, nil
}

// Bytes returns the fixed 64-byte r || s serialization.
func (sig *Signature) Bytes() []byte {
	var out [SignatureSize]byte
	sig.r.PutBytesUnchecked(out[:ScalarSize])
	sig.s.PutBytesUnchecked(out[ScalarSize:])
	return out[:]
}

// Sign produces a signature over msg. Each call draws fresh entropy for the
// nonce from the process CSPRNG, so repeated signatures over the same message
// differ while all verifying. Only malformed key material is an error.
func Sign(priv *secp256k1.PrivateKey, msg []byte) (*Signature, error) {
	if priv == nil || priv.Key.IsZero() {
		return nil, &SigningError{Reason: "private key scalar is zero"}
	}

	pub := priv.PubKey().SerializeCompressed()

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		nonce, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, &SigningError{Reason: "failed to draw signing nonce: " + err.Error()}
		}

		sig, ok := signWithNonce(&priv.Key, &nonce.Key, pub, msg)
		nonce.Zero()
		if ok {
			return sig, nil
		}
	}

	return nil, &SigningError{Reason: "exhausted nonce attempts without a valid signature"}
}

// signWithNonce runs one signing attempt with the given nonce scalar. It
// reports failure when either resulting scalar is zero, in which case the
// caller redraws.
func signWithNonce(key, nonce *secp256k1.ModNScalar, pub, msg []byte) (*Signature, bool) {
	var q secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(nonce, &q)
	q.ToAffine()
	commitment := secp256k1.NewPublicKey(&q.X, &q.Y).SerializeCompressed()

	r := challenge(commitment, pub, msg)
	if r.IsZero() {
		return nil, false
	}

	// s = k - r*sk
	s := new(secp256k1.ModNScalar).Mul2(r, key)
	s.Negate().Add(nonce)
	if s.IsZero() {
		return nil, false
	}

	return NewSignature(r, s), true
}

// Verify reports whether sig is a valid signature over msg for pub. It is
// the exact inverse of Sign and never returns an error: any malformed input
// simply fails verification.
func Verify(pub *secp256k1.PublicKey, msg []byte, sig *Signature) bool {
	if pub == nil || sig == nil {
		return false
	}
	if sig.r.IsZero() || sig.s.IsZero() {
		return false
	}

	// Q' = s*G + r*P
	var p, sg, rp, q secp256k1.JacobianPoint
	pub.AsJacobian(&p)
	secp256k1.ScalarBaseMultNonConst(&sig.s, &sg)
	secp256k1.ScalarMultNonConst(&sig.r, &p, &rp)
	secp256k1.AddNonConst(&sg, &rp, &q)

	if (q.X.IsZero() && q.Y.IsZero()) || q.Z.IsZero() {
		return false
	}

	q.ToAffine()
	commitment := secp256k1.NewPublicKey(&q.X, &q.Y).SerializeCompressed()

	return challenge(commitment, pub.SerializeCompressed(), msg).Equals(&sig.r)
}

// challenge computes SHA256(commitment || pub || msg) reduced mod n.
func challenge(commitment, pub, msg []byte) *secp256k1.ModNScalar {
	h := sha256.New()
	h.Write(commitment)
	h.Write(pub)
	h.Write(msg)

	var r secp256k1.ModNScalar
	r.SetByteSlice(h.Sum(nil))
	return &r
}
