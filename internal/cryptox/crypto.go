// Package cryptox holds the primitives used to keep local secrets encrypted
// at rest: an argon2id key derivation and AES-GCM sealing with additional
// authenticated data.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys produced by DeriveStoreKey (AES-256).
const KeySize = 32

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// DeriveStoreKey derives the key that seals the local secret store from the
// device secret and the per-install salt.
func DeriveStoreKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key. The random nonce is
// prepended to the returned ciphertext. aad is authenticated but not
// encrypted; the same aad must be passed to Open.
//
// Example:
//
//	key := cryptox.DeriveStoreKey(deviceSecret, salt)
//	sealed, err := cryptox.Seal(key, []byte("token"), []byte("auth_token"))
//	if err != nil {
//	    return err
//	}
//	plain, err := cryptox.Open(key, sealed, []byte("auth_token"))
func Seal(key, plaintext, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	out := make([]byte, 0, len(nonce)+len(plaintext)+aesgcm.Overhead())
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, aad), nil
}

// Open reverses Seal. It fails if the key or aad differ from the ones used
// for sealing, or if the ciphertext was tampered with.
func Open(key, sealed, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns+aesgcm.Overhead() {
		return nil, ErrMalformedCiphertext
	}

	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
