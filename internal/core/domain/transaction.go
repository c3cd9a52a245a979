package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

var (
	ErrTxMissingID      = fmt.Errorf("missing transaction id")
	ErrTxMissingRawData = fmt.Errorf("missing transaction raw data")
	ErrTxMissingSig     = fmt.Errorf("missing transaction signature")
	ErrTxDigestMismatch = fmt.Errorf(
		"transaction id does not match the hash of its raw data",
	)
)

// UnsignedTransaction is a TRON transaction as built by the full node. The
// raw data is carried both in protobuf-encoded hex form, which is what gets
// hashed and signed, and as the node's JSON rendering for display purposes.
type UnsignedTransaction struct {
	TxID       string          `json:"txID"`
	RawData    json.RawMessage `json:"raw_data,omitempty"`
	RawDataHex string          `json:"raw_data_hex"`
}

func (t *UnsignedTransaction) validate() error {
	if t.TxID == "" {
		return ErrTxMissingID
	}
	if t.RawDataHex == "" {
		return ErrTxMissingRawData
	}
	return nil
}

// Digest returns the 32-byte signing digest of the transaction and verifies
// it matches the declared transaction id, so that a tampered id can never be
// signed or broadcast.
func (t *UnsignedTransaction) Digest() ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(t.RawDataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid raw data hex: %w", err)
	}
	declared, err := hex.DecodeString(t.TxID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	digest := sha256.Sum256(raw)
	if !bytes.Equal(digest[:], declared) {
		return nil, ErrTxDigestMismatch
	}
	return digest[:], nil
}

// SignedTransaction is an UnsignedTransaction carrying one or more
// signatures, each a 65-byte recoverable signature in hex form. The first
// signature is the sender's; the sponsor may append its own before
// broadcasting.
type SignedTransaction struct {
	UnsignedTransaction
	Signature []string `json:"signature"`
}

func (t *SignedTransaction) Validate() error {
	if err := t.UnsignedTransaction.validate(); err != nil {
		return err
	}
	if len(t.Signature) == 0 {
		return ErrTxMissingSig
	}
	return nil
}

// AccountResources is the gas-resource snapshot of an account: energy powers
// contract execution, bandwidth (net) covers transaction bytes. Both are
// consumed by every sponsored broadcast, so a snapshot is only meaningful
// right after it was taken.
type AccountResources struct {
	EnergyUsed   uint64
	EnergyLimit  uint64
	NetUsed      uint64
	NetLimit     uint64
	FreeNetUsed  uint64
	FreeNetLimit uint64
}

// EnergyAvailable returns the energy still spendable before the limit.
func (r AccountResources) EnergyAvailable() uint64 {
	if r.EnergyUsed >= r.EnergyLimit {
		return 0
	}
	return r.EnergyLimit - r.EnergyUsed
}

// BroadcastResult is the network's verdict on a broadcast attempt.
type BroadcastResult struct {
	Accepted bool
	TxID     string
	Code     string
	Message  string
}

// TransactionStatus is the current on-chain status of a transaction,
// re-derived from the network on every query rather than stored.
type TransactionStatus struct {
	TxID        string
	Confirmed   bool
	BlockNumber uint64
	Raw         json.RawMessage
}
