// Package aescypher encrypts wallet secret bundles with AES-256-GCM under
// a scrypt-derived key. The output layout is salt || nonce || ciphertext,
// with a fresh random salt and nonce per encryption.
package aescypher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	keyLen   = 32
	saltLen  = 32
	nonceLen = 12
)

var (
	ErrMissingPlaintext  = fmt.Errorf("missing plaintext")
	ErrMissingPassword   = fmt.Errorf("missing password")
	ErrInvalidCiphertext = fmt.Errorf("invalid ciphertext")
)

// ScryptParams tunes the password key derivation. Stronger parameters make
// offline brute force more expensive at the cost of unlock latency.
type ScryptParams struct {
	N int
	R int
	P int
}

func (p ScryptParams) validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("scrypt N must be a power of two greater than 1")
	}
	if p.R <= 0 || p.P <= 0 {
		return fmt.Errorf("scrypt r and p must be positive")
	}
	return nil
}

// DefaultScryptParams takes around a second on commodity hardware, which is
// acceptable for an interactive unlock.
var DefaultScryptParams = ScryptParams{N: 1 << 18, R: 8, P: 1}

type aesCypher struct {
	params ScryptParams
}

// NewAESCypher returns a cypher implementing domain.IBundleCypher.
func NewAESCypher(params ScryptParams) (*aesCypher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &aesCypher{params}, nil
}

func (c *aesCypher) Encrypt(plaintext, password []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrMissingPlaintext
	}
	if len(password) == 0 {
		return nil, ErrMissingPassword
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := c.gcm(password, salt)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, saltLen+nonceLen+len(plaintext)+aesGCM.Overhead())
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	return aesGCM.Seal(buf, nonce, plaintext, nil), nil
}

func (c *aesCypher) Decrypt(ciphertext, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrMissingPassword
	}
	if len(ciphertext) <= saltLen+nonceLen {
		return nil, ErrInvalidCiphertext
	}

	salt := ciphertext[:saltLen]
	nonce := ciphertext[saltLen : saltLen+nonceLen]
	sealed := ciphertext[saltLen+nonceLen:]

	aesGCM, err := c.gcm(password, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid password")
	}
	return plaintext, nil
}

func (c *aesCypher) gcm(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(
		password, salt, c.params.N, c.params.R, c.params.P, keyLen,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
