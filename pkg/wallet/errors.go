package wallet

import "fmt"

var (
	ErrInvalidEntropySize = fmt.Errorf(
		"entropy size must be a multiple of 32 in the range [128, 256]",
	)
	ErrMissingMnemonic  = fmt.Errorf("missing mnemonic")
	ErrInvalidMnemonic  = fmt.Errorf("invalid mnemonic checksum")
	ErrInvalidKeyLength = fmt.Errorf("private key must be exactly 32 bytes")
	ErrInvalidAddress   = fmt.Errorf("invalid TRON address")
	ErrMissingDigest    = fmt.Errorf("missing transaction digest")
	ErrInvalidDigestLen = fmt.Errorf("transaction digest must be 32 bytes")
	ErrDigestMismatch   = fmt.Errorf(
		"transaction id does not match the hash of its raw data",
	)
)
