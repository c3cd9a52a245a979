package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/internal/core/ports"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

// TransactionService is responsible for operations related to token
// transfers:
//   - Get the token balance of any address.
//   - Prepare a sponsored transfer: split the gross amount into the fee
//     leg and the principal leg and build both unsigned transactions.
//   - Look up the confirmation status of a broadcast transaction.
//
// Preparing never broadcasts anything. The returned pair of unsigned
// transactions is signed by the caller and handed to the relay service.
type TransactionService struct {
	tronClient  ports.TronClient
	feeReceiver string
	feeUnits    uint64

	log func(format string, a ...interface{})
}

func NewTransactionService(
	tronClient ports.TronClient, feeReceiver string, feeUnits uint64,
) (*TransactionService, error) {
	if !wallet.IsValidAddress(feeReceiver) {
		return nil, fmt.Errorf("invalid fee receiver address")
	}
	if feeUnits == 0 {
		return nil, fmt.Errorf("fee amount must be positive")
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("transaction service: %s", format)
		log.Debugf(format, a...)
	}
	return &TransactionService{tronClient, feeReceiver, feeUnits, logFn}, nil
}

func (ts *TransactionService) FeeUnits() uint64 { return ts.feeUnits }

func (ts *TransactionService) GetBalance(
	ctx context.Context, address string,
) (*BalanceInfo, error) {
	if !wallet.IsValidAddress(address) {
		return nil, ErrInvalidAddress
	}

	units, err := ts.tronClient.GetTokenBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	return &BalanceInfo{Address: address, Units: units}, nil
}

// PrepareTransfer splits the gross amount and builds the two unsigned
// legs of a sponsored transfer. The sender's balance is checked against
// the full gross amount before any transaction is built.
func (ts *TransactionService) PrepareTransfer(
	ctx context.Context, from, to string, totalUnits uint64,
) (*TransferPair, error) {
	if !wallet.IsValidAddress(from) || !wallet.IsValidAddress(to) {
		return nil, ErrInvalidAddress
	}
	if from == to {
		return nil, ErrSameAddress
	}

	split, err := ts.splitAmount(totalUnits)
	if err != nil {
		return nil, err
	}

	balance, err := ts.tronClient.GetTokenBalance(ctx, from)
	if err != nil {
		return nil, err
	}
	if balance < split.Total {
		return nil, &InsufficientBalanceError{
			Required:  split.Total,
			Available: balance,
		}
	}

	feeLeg, err := ts.tronClient.BuildTokenTransfer(
		ctx, from, ts.feeReceiver, split.Fee,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build fee leg: %s", err)
	}
	principalLeg, err := ts.tronClient.BuildTokenTransfer(
		ctx, from, to, split.Principal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build principal leg: %s", err)
	}

	ts.log(
		"prepared transfer of %s from %s: fee %s, principal %s",
		FormatTokenAmount(split.Total), from,
		FormatTokenAmount(split.Fee), FormatTokenAmount(split.Principal),
	)

	return &TransferPair{
		Split:        *split,
		From:         from,
		To:           to,
		FeeReceiver:  ts.feeReceiver,
		FeeLeg:       feeLeg,
		PrincipalLeg: principalLeg,
	}, nil
}

func (ts *TransactionService) GetTransactionStatus(
	ctx context.Context, txID string,
) (*domain.TransactionStatus, error) {
	return ts.tronClient.GetTransactionStatus(ctx, txID)
}

// splitAmount deducts the flat service fee from the gross amount. The
// fee and the principal always sum to the total, and both legs must be
// strictly positive.
func (ts *TransactionService) splitAmount(totalUnits uint64) (*SplitAmounts, error) {
	if totalUnits == 0 {
		return nil, ErrInvalidAmount
	}
	if totalUnits <= ts.feeUnits {
		return nil, ErrAmountBelowFee
	}
	return &SplitAmounts{
		Total:     totalUnits,
		Fee:       ts.feeUnits,
		Principal: totalUnits - ts.feeUnits,
	}, nil
}
