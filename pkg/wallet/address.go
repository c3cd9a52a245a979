package wallet

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// TRON addresses are base58check over a 21-byte payload: a 0x41 version
// prefix followed by the last 20 bytes of keccak256(uncompressed pubkey).
const (
	addressVersion = 0x41
	addressPayloadLen = 20
)

// AddressFromPublicKey returns the base58check TRON address of the given
// public key.
func AddressFromPublicKey(pubKey *secp256k1.PublicKey) string {
	uncompressed := pubKey.SerializeUncompressed()
	hash := sha3.NewLegacyKeccak256()
	hash.Write(uncompressed[1:])
	digest := hash.Sum(nil)
	return base58.CheckEncode(digest[len(digest)-addressPayloadLen:], addressVersion)
}

// IsValidAddress reports whether the given string is a well-formed TRON
// base58check address.
func IsValidAddress(address string) bool {
	payload, version, err := base58.CheckDecode(address)
	return err == nil &&
		version == addressVersion &&
		len(payload) == addressPayloadLen
}

// AddressToHex converts a base58check address to the 21-byte hex form
// expected by full-node APIs.
func AddressToHex(address string) (string, error) {
	payload, version, err := base58.CheckDecode(address)
	if err != nil || version != addressVersion || len(payload) != addressPayloadLen {
		return "", ErrInvalidAddress
	}
	return hex.EncodeToString(append([]byte{version}, payload...)), nil
}

// AddressFromHex converts a 21-byte hex address back to base58check.
func AddressFromHex(hexAddress string) (string, error) {
	raw, err := hex.DecodeString(hexAddress)
	if err != nil || len(raw) != addressPayloadLen+1 || raw[0] != addressVersion {
		return "", ErrInvalidAddress
	}
	return base58.CheckEncode(raw[1:], addressVersion), nil
}
