package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStoreKey_Deterministic(t *testing.T) {
	secret := []byte("device-secret")
	salt := []byte("fixed-salt")

	key1 := DeriveStoreKey(secret, salt)
	key2 := DeriveStoreKey(secret, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != KeySize {
		t.Errorf("expected key length %d, got %d", KeySize, len(key1))
	}
}

func TestDeriveStoreKey_DifferentSalts(t *testing.T) {
	secret := []byte("device-secret")

	key1 := DeriveStoreKey(secret, []byte("salt-1"))
	key2 := DeriveStoreKey(secret, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveStoreKey([]byte("s"), []byte("salt"))
	plain := []byte("tok1")

	sealed, err := Seal(key, plain, []byte("auth_token"))
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "tok1")

	got, err := Open(key, sealed, []byte("auth_token"))
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	key := DeriveStoreKey([]byte("s"), []byte("salt"))

	a, err := Seal(key, []byte("same"), nil)
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"), nil)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestOpen_WrongAAD(t *testing.T) {
	key := DeriveStoreKey([]byte("s"), []byte("salt"))

	sealed, err := Seal(key, []byte("secret"), []byte("device-a"))
	require.NoError(t, err)

	_, err = Open(key, sealed, []byte("device-b"))
	require.Error(t, err)
}

func TestOpen_WrongKey(t *testing.T) {
	key := DeriveStoreKey([]byte("s"), []byte("salt"))
	other := DeriveStoreKey([]byte("other"), []byte("salt"))

	sealed, err := Seal(key, []byte("secret"), nil)
	require.NoError(t, err)

	_, err = Open(other, sealed, nil)
	require.Error(t, err)
}

func TestOpen_Truncated(t *testing.T) {
	key := DeriveStoreKey([]byte("s"), []byte("salt"))

	_, err := Open(key, []byte{1, 2, 3}, nil)
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("short"), []byte("x"), nil)
	require.Error(t, err)
}
