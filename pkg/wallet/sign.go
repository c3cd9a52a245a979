package wallet

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

type SignDigestArgs struct {
	Digest []byte
}

func (a SignDigestArgs) validate() error {
	if len(a.Digest) == 0 {
		return ErrMissingDigest
	}
	if len(a.Digest) != sha256.Size {
		return ErrInvalidDigestLen
	}
	return nil
}

// SignDigest signs a 32-byte transaction digest and returns the 65-byte
// recoverable signature in the r || s || v layout TRON nodes expect.
func (w *Wallet) SignDigest(args SignDigestArgs) ([]byte, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	// SignCompact returns [v+27] || r || s for uncompressed pubkeys.
	compact := ecdsa.SignCompact(w.privateKey, args.Digest, false)

	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27
	return sig, nil
}

// TransactionDigest computes the signing digest of a transaction from its
// raw data in hex form. The digest doubles as the transaction id.
func TransactionDigest(rawDataHex string) ([]byte, error) {
	raw, err := hex.DecodeString(rawDataHex)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(raw)
	return digest[:], nil
}
