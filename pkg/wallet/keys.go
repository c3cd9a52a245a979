package wallet

import (
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// BIP-44 derivation constants for TRON (SLIP-44 coin type 195).
// Full path: m/44'/195'/0'/0/0 - the wallet manages exactly one account.
const (
	purposeBIP44 = bip32.FirstHardenedChild + 44
	coinTypeTron = bip32.FirstHardenedChild + 195
	accountZero  = bip32.FirstHardenedChild + 0
	changeChain  = uint32(0)
	addressIndex = uint32(0)
)

// DerivationPath is the fixed path every account is derived at.
const DerivationPath = "m/44'/195'/0'/0/0"

func deriveAccountKey(mnemonic []string) (*secp256k1.PrivateKey, error) {
	seed := bip39.NewSeed(strings.Join(mnemonic, " "), "")
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	for _, step := range []uint32{
		purposeBIP44, coinTypeTron, accountZero, changeChain, addressIndex,
	} {
		key, err = key.NewChildKey(step)
		if err != nil {
			return nil, err
		}
	}

	// bip32 may prepend a zero byte to private key material.
	raw := key.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) != 32 {
		return nil, ErrInvalidKeyLength
	}

	return secp256k1.PrivKeyFromBytes(raw), nil
}
