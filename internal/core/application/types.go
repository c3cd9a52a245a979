package application

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
)

// TokenDecimals is the number of decimal places of the transferred token.
const TokenDecimals = 6

// ParseTokenAmount converts a decimal amount string to token base units.
// Amounts with more fractional digits than the token supports are
// rejected rather than rounded.
func ParseTokenAmount(amount string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	minor := d.Shift(TokenDecimals)
	if !minor.IsInteger() {
		return 0, ErrInvalidAmount
	}
	bi := minor.BigInt()
	if !bi.IsUint64() {
		return 0, ErrInvalidAmount
	}
	return bi.Uint64(), nil
}

// FormatTokenAmount renders token base units as a decimal string.
func FormatTokenAmount(units uint64) string {
	return decimal.NewFromBigInt(
		new(big.Int).SetUint64(units), -TokenDecimals,
	).String()
}

// BuildInfo holds compile-time metadata of the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// SplitAmounts is the outcome of splitting a gross transfer into the
// fee leg and the principal leg. All amounts are in token base units.
type SplitAmounts struct {
	Total     uint64
	Fee       uint64
	Principal uint64
}

// TransferPair holds the two unsigned legs of a sponsored transfer.
// The fee leg must be broadcast and settled before the principal leg.
type TransferPair struct {
	Split        SplitAmounts
	From         string
	To           string
	FeeReceiver  string
	FeeLeg       *domain.UnsignedTransaction
	PrincipalLeg *domain.UnsignedTransaction
}

// SignedTransferPair carries both legs after signing, in broadcast order,
// along with the transfer parameters they were prepared for. Addresses and
// amount are re-validated at submit time, since balances and inputs may
// have changed between preparation and submission.
type SignedTransferPair struct {
	From         string
	To           string
	Total        uint64
	FeeLeg       *domain.SignedTransaction
	PrincipalLeg *domain.SignedTransaction
}

// RelayResult reports a fully settled sponsored transfer.
type RelayResult struct {
	FeeTxID       string
	PrincipalTxID string
}

// BalanceInfo is a point-in-time token balance of an address.
type BalanceInfo struct {
	Address string
	Units   uint64
}

// Amount returns the balance as a decimal string.
func (b BalanceInfo) Amount() string { return FormatTokenAmount(b.Units) }

// SponsorStatus describes the sponsor account's current capacity.
type SponsorStatus struct {
	Address         string
	Ready           bool
	EnergyAvailable uint64
	EnergyLimit     uint64
	EnergyFloor     uint64
	TrxBalance      uint64
}
