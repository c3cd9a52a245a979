package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

var (
	ErrWalletMissingID       = fmt.Errorf("missing wallet id")
	ErrWalletMissingSecret   = fmt.Errorf("missing secret material")
	ErrWalletMissingAddress  = fmt.Errorf("missing wallet address")
	ErrWalletMissingPassword = fmt.Errorf("missing password")
	ErrWalletInvalidPassword = fmt.Errorf("incorrect password")
	ErrWalletNotFound        = fmt.Errorf("no wallet stored")
)

// SecretBundle is the plaintext secret material of a wallet: the recovery
// mnemonic (empty for key-imported wallets), the raw private key and the
// derived address. It only ever exists in memory and inside the encrypted
// bundle of a Wallet.
type SecretBundle struct {
	Mnemonic   []string `json:"mnemonic,omitempty"`
	PrivateKey []byte   `json:"privateKey"`
	Address    string   `json:"address"`
}

func (b SecretBundle) validate() error {
	if len(b.PrivateKey) == 0 {
		return ErrWalletMissingSecret
	}
	if b.Address == "" {
		return ErrWalletMissingAddress
	}
	return nil
}

// Wallet is the stored form of the holder's single account: the
// password-encrypted secret bundle plus the plaintext public address. The
// address is not secret and is kept readable so the UI can show it without
// prompting for the password.
type Wallet struct {
	ID              string
	EncryptedBundle []byte
	Address         string
	DerivationPath  string
	CreatedAt       time.Time
}

// NewWallet encrypts the given secret bundle with the password and returns a
// Wallet ready to be persisted. Encrypting the same bundle twice yields
// different ciphertexts since the cypher picks a fresh salt and nonce per
// call.
func NewWallet(
	id string, bundle SecretBundle, derivationPath, password string,
) (*Wallet, error) {
	if id == "" {
		return nil, ErrWalletMissingID
	}
	if err := bundle.validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrWalletMissingPassword
	}

	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return nil, err
	}
	defer clearBytes(plaintext)

	encrypted, err := BundleCypher.Encrypt(plaintext, []byte(password))
	if err != nil {
		return nil, err
	}

	return &Wallet{
		ID:              id,
		EncryptedBundle: encrypted,
		Address:         bundle.Address,
		DerivationPath:  derivationPath,
		CreatedAt:       time.Now(),
	}, nil
}

// Unlock decrypts the wallet's secret bundle with the given password. Any
// decryption failure is reported as ErrWalletInvalidPassword: the cypher is
// authenticated, so a wrong password can never yield garbage output. The
// caller must zero the bundle's private key after use.
func (w *Wallet) Unlock(password string) (*SecretBundle, error) {
	if password == "" {
		return nil, ErrWalletMissingPassword
	}

	plaintext, err := BundleCypher.Decrypt(w.EncryptedBundle, []byte(password))
	if err != nil {
		return nil, ErrWalletInvalidPassword
	}
	defer clearBytes(plaintext)

	bundle := &SecretBundle{}
	if err := json.Unmarshal(plaintext, bundle); err != nil {
		return nil, ErrWalletInvalidPassword
	}
	return bundle, nil
}

func clearBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
