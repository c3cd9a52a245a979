package application

import (
	"fmt"
)

var (
	// ErrWalletAlreadyExists is returned when attempting to create or
	// restore a wallet over an existing one.
	ErrWalletAlreadyExists = fmt.Errorf("wallet already exists")
	// ErrInvalidAmount is returned when a decimal amount string cannot be
	// converted to a whole number of token base units.
	ErrInvalidAmount = fmt.Errorf("invalid token amount")
	// ErrAmountBelowFee is returned when the requested transfer does
	// not cover the service fee.
	ErrAmountBelowFee = fmt.Errorf("amount must be greater than the service fee")
	// ErrInvalidAddress is returned for malformed base58check addresses.
	ErrInvalidAddress = fmt.Errorf("invalid address")
	// ErrSameAddress is returned when sender and recipient coincide.
	ErrSameAddress = fmt.Errorf("sender and recipient must differ")
)

// Stage identifies the leg of a sponsored transfer being processed.
type Stage string

const (
	StageFee       Stage = "fee"
	StagePrincipal Stage = "principal"
)

// InsufficientBalanceError is returned when the sender's token balance
// cannot cover fee plus principal. Amounts are in token base units.
type InsufficientBalanceError struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: required %s, available %s",
		FormatTokenAmount(e.Required), FormatTokenAmount(e.Available),
	)
}

// SponsorUnderfundedError is returned when the sponsor account does not
// hold enough energy to underwrite a transfer.
type SponsorUnderfundedError struct {
	EnergyAvailable uint64
	EnergyFloor     uint64
}

func (e *SponsorUnderfundedError) Error() string {
	return fmt.Sprintf(
		"sponsor underfunded: %d energy available, %d required",
		e.EnergyAvailable, e.EnergyFloor,
	)
}

// BroadcastError is returned when the network definitively rejects a
// transaction leg.
type BroadcastError struct {
	Stage   Stage
	Code    string
	Message string
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("%s leg rejected: %s %s", e.Stage, e.Code, e.Message)
}

// PartialFailureError is returned when the fee leg settled but the
// principal leg did not. FeeTxID identifies the funds already moved.
type PartialFailureError struct {
	FeeTxID string
	Reason  error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf(
		"principal leg failed after fee leg %s settled: %v", e.FeeTxID, e.Reason,
	)
}

func (e *PartialFailureError) Unwrap() error { return e.Reason }

// UnknownOutcomeError is returned when a broadcast attempt ended without
// a definitive acceptance or rejection, for example on a network timeout.
// The leg may or may not have reached the network, so the caller must
// re-query the transaction status instead of treating this as a failure.
// FeeTxID is set when the fee leg had already settled by then.
type UnknownOutcomeError struct {
	Stage   Stage
	FeeTxID string
	Err     error
}

func (e *UnknownOutcomeError) Error() string {
	if e.FeeTxID != "" {
		return fmt.Sprintf(
			"%s leg outcome unknown after fee leg %s settled: %v",
			e.Stage, e.FeeTxID, e.Err,
		)
	}
	return fmt.Sprintf("%s leg outcome unknown: %v", e.Stage, e.Err)
}

func (e *UnknownOutcomeError) Unwrap() error { return e.Err }
