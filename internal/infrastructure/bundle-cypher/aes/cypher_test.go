package aescypher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	aescypher "github.com/novacoinotc/claudewallet/internal/infrastructure/bundle-cypher/aes"
)

// Weak parameters to keep the tests fast. Production uses
// DefaultScryptParams.
var testParams = aescypher.ScryptParams{N: 1 << 12, R: 8, P: 1}

func TestEncryptDecrypt(t *testing.T) {
	cypher, err := aescypher.NewAESCypher(testParams)
	require.NoError(t, err)

	plaintext := []byte(`{"privateKey":"3q2+7w==","address":"TTestAddress"}`)
	password := []byte("hunter2hunter2")

	ciphertext, err := cypher.Encrypt(plaintext, password)
	require.NoError(t, err)
	require.NotContains(t, string(ciphertext), "privateKey")

	decrypted, err := cypher.Decrypt(ciphertext, password)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)

	// A fresh salt and nonce make every encryption unique.
	other, err := cypher.Encrypt(plaintext, password)
	require.NoError(t, err)
	require.NotEqual(t, ciphertext, other)
}

func TestDecryptWrongPassword(t *testing.T) {
	cypher, err := aescypher.NewAESCypher(testParams)
	require.NoError(t, err)

	ciphertext, err := cypher.Encrypt([]byte("secret"), []byte("right"))
	require.NoError(t, err)

	_, err = cypher.Decrypt(ciphertext, []byte("wrong"))
	require.Error(t, err)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	cypher, err := aescypher.NewAESCypher(testParams)
	require.NoError(t, err)

	password := []byte("password")
	ciphertext, err := cypher.Encrypt([]byte("secret"), password)
	require.NoError(t, err)

	ciphertext[len(ciphertext)-1] ^= 0xff
	_, err = cypher.Decrypt(ciphertext, password)
	require.Error(t, err)
}

func TestInvalidArgs(t *testing.T) {
	cypher, err := aescypher.NewAESCypher(testParams)
	require.NoError(t, err)

	_, err = cypher.Encrypt(nil, []byte("password"))
	require.ErrorIs(t, err, aescypher.ErrMissingPlaintext)

	_, err = cypher.Encrypt([]byte("secret"), nil)
	require.ErrorIs(t, err, aescypher.ErrMissingPassword)

	_, err = cypher.Decrypt([]byte("too short"), []byte("password"))
	require.ErrorIs(t, err, aescypher.ErrInvalidCiphertext)

	_, err = aescypher.NewAESCypher(aescypher.ScryptParams{N: 3, R: 8, P: 1})
	require.Error(t, err)
}
