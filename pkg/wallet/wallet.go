// Package wallet implements the local key custody primitives of a gas-free
// TRON wallet: BIP-39 mnemonic handling, single-account BIP-44 derivation,
// base58check address encoding and transaction signing. Secret material never
// leaves this package other than through explicit accessors the caller is
// expected to zero after use.
package wallet

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Wallet is a single-account TRON wallet, either derived from a BIP-39
// mnemonic at the fixed derivation path or imported from a raw private key.
type Wallet struct {
	mnemonic   []string
	privateKey *secp256k1.PrivateKey
	address    string
}

type NewWalletArgs struct {
	EntropySize uint32
}

func (a NewWalletArgs) validate() error {
	return NewMnemonicArgs{EntropySize: a.EntropySize}.validate()
}

// NewWallet creates a new wallet from a fresh random mnemonic.
func NewWallet(args NewWalletArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := NewMnemonic(NewMnemonicArgs{EntropySize: args.EntropySize})
	if err != nil {
		return nil, err
	}
	return NewWalletFromMnemonic(NewWalletFromMnemonicArgs{Mnemonic: mnemonic})
}

type NewWalletFromMnemonicArgs struct {
	Mnemonic []string
}

func (a NewWalletFromMnemonicArgs) validate() error {
	if len(a.Mnemonic) == 0 {
		return ErrMissingMnemonic
	}
	if !isMnemonicValid(a.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic restores a wallet from an existing mnemonic. The
// derivation is deterministic: the same mnemonic always yields the same
// private key and address.
func NewWalletFromMnemonic(args NewWalletFromMnemonicArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	privateKey, err := deriveAccountKey(args.Mnemonic)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic:   args.Mnemonic,
		privateKey: privateKey,
		address:    AddressFromPublicKey(privateKey.PubKey()),
	}, nil
}

type NewWalletFromKeyArgs struct {
	PrivateKey []byte
}

func (a NewWalletFromKeyArgs) validate() error {
	if len(a.PrivateKey) != 32 {
		return ErrInvalidKeyLength
	}
	return nil
}

// NewWalletFromKey imports a wallet from a raw 32-byte private key. No
// mnemonic is available for such a wallet.
func NewWalletFromKey(args NewWalletFromKeyArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	privateKey := secp256k1.PrivKeyFromBytes(args.PrivateKey)
	return &Wallet{
		privateKey: privateKey,
		address:    AddressFromPublicKey(privateKey.PubKey()),
	}, nil
}

// Mnemonic returns the wallet's mnemonic, or nil for key-imported wallets.
func (w *Wallet) Mnemonic() []string {
	if len(w.mnemonic) == 0 {
		return nil
	}
	out := make([]string, len(w.mnemonic))
	copy(out, w.mnemonic)
	return out
}

// Address returns the base58check TRON address of the wallet's account.
func (w *Wallet) Address() string {
	return w.address
}

// PrivateKeyBytes returns a copy of the 32-byte private key scalar. The
// caller must zero the returned slice after use.
func (w *Wallet) PrivateKeyBytes() []byte {
	serialized := w.privateKey.Serialize()
	out := make([]byte, len(serialized))
	copy(out, serialized)
	return out
}
