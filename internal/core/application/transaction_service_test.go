package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novacoinotc/claudewallet/internal/core/application"
)

var ctx = context.Background()

func TestParseTokenAmount(t *testing.T) {
	tests := []struct {
		amount   string
		expected uint64
	}{
		{"10", 10_000_000},
		{"1", 1_000_000},
		{"0.000001", 1},
		{"1234.56", 1_234_560_000},
		{" 2.5 ", 2_500_000},
	}
	for _, tt := range tests {
		units, err := application.ParseTokenAmount(tt.amount)
		require.NoError(t, err)
		require.Equal(t, tt.expected, units)
	}

	invalid := []string{"", "abc", "-1", "0.0000001", "1e1000"}
	for _, amount := range invalid {
		_, err := application.ParseTokenAmount(amount)
		require.ErrorIs(t, err, application.ErrInvalidAmount)
	}
}

func TestFormatTokenAmount(t *testing.T) {
	require.Equal(t, "10", application.FormatTokenAmount(10_000_000))
	require.Equal(t, "0.000001", application.FormatTokenAmount(1))
	require.Equal(t, "1234.56", application.FormatTokenAmount(1_234_560_000))
	require.Equal(t, "0", application.FormatTokenAmount(0))
}

func TestPrepareTransfer(t *testing.T) {
	sender := newTestWallet()
	recipient := newTestWallet()
	feeReceiver := newTestWallet()
	feeUnits := uint64(1_000_000)

	tronClient := &mockTronClient{}
	tronClient.On("GetTokenBalance", mock.Anything, sender.Address()).
		Return(uint64(50_000_000), nil)
	tronClient.On(
		"BuildTokenTransfer", mock.Anything,
		sender.Address(), feeReceiver.Address(), feeUnits,
	).Return(randomTx(), nil)
	tronClient.On(
		"BuildTokenTransfer", mock.Anything,
		sender.Address(), recipient.Address(), uint64(9_000_000),
	).Return(randomTx(), nil)

	svc, err := application.NewTransactionService(
		tronClient, feeReceiver.Address(), feeUnits,
	)
	require.NoError(t, err)

	pair, err := svc.PrepareTransfer(
		ctx, sender.Address(), recipient.Address(), 10_000_000,
	)
	require.NoError(t, err)
	require.NotNil(t, pair)
	require.Equal(t, uint64(10_000_000), pair.Split.Total)
	require.Equal(t, feeUnits, pair.Split.Fee)
	require.Equal(t, uint64(9_000_000), pair.Split.Principal)
	require.Equal(t, pair.Split.Total, pair.Split.Fee+pair.Split.Principal)
	require.NotNil(t, pair.FeeLeg)
	require.NotNil(t, pair.PrincipalLeg)
	require.Equal(t, feeReceiver.Address(), pair.FeeReceiver)
	tronClient.AssertExpectations(t)
}

func TestPrepareTransferSplitBoundaries(t *testing.T) {
	sender := newTestWallet()
	recipient := newTestWallet()
	feeReceiver := newTestWallet()
	feeUnits := uint64(1_000_000)

	tronClient := &mockTronClient{}
	tronClient.On("GetTokenBalance", mock.Anything, mock.Anything).
		Return(uint64(100_000_000), nil)
	tronClient.On(
		"BuildTokenTransfer", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything,
	).Return(randomTx(), nil)

	svc, err := application.NewTransactionService(
		tronClient, feeReceiver.Address(), feeUnits,
	)
	require.NoError(t, err)

	// Exactly the fee leaves nothing to transfer.
	_, err = svc.PrepareTransfer(
		ctx, sender.Address(), recipient.Address(), feeUnits,
	)
	require.ErrorIs(t, err, application.ErrAmountBelowFee)

	_, err = svc.PrepareTransfer(
		ctx, sender.Address(), recipient.Address(), feeUnits-1,
	)
	require.ErrorIs(t, err, application.ErrAmountBelowFee)

	_, err = svc.PrepareTransfer(ctx, sender.Address(), recipient.Address(), 0)
	require.ErrorIs(t, err, application.ErrInvalidAmount)

	// One unit above the fee is the smallest transferable amount.
	pair, err := svc.PrepareTransfer(
		ctx, sender.Address(), recipient.Address(), feeUnits+1,
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1), pair.Split.Principal)
}

func TestPrepareTransferInsufficientBalance(t *testing.T) {
	sender := newTestWallet()
	recipient := newTestWallet()
	feeReceiver := newTestWallet()

	tronClient := &mockTronClient{}
	tronClient.On("GetTokenBalance", mock.Anything, sender.Address()).
		Return(uint64(5_000_000), nil)

	svc, err := application.NewTransactionService(
		tronClient, feeReceiver.Address(), 1_000_000,
	)
	require.NoError(t, err)

	_, err = svc.PrepareTransfer(
		ctx, sender.Address(), recipient.Address(), 10_000_000,
	)
	var insufficientErr *application.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficientErr)
	require.Equal(t, uint64(10_000_000), insufficientErr.Required)
	require.Equal(t, uint64(5_000_000), insufficientErr.Available)
	// Nothing gets built when the balance check fails.
	tronClient.AssertNotCalled(
		t, "BuildTokenTransfer",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	)
}

func TestPrepareTransferInvalidArgs(t *testing.T) {
	sender := newTestWallet()
	feeReceiver := newTestWallet()

	tronClient := &mockTronClient{}
	svc, err := application.NewTransactionService(
		tronClient, feeReceiver.Address(), 1_000_000,
	)
	require.NoError(t, err)

	_, err = svc.PrepareTransfer(ctx, "not-an-address", sender.Address(), 10_000_000)
	require.ErrorIs(t, err, application.ErrInvalidAddress)

	_, err = svc.PrepareTransfer(ctx, sender.Address(), "not-an-address", 10_000_000)
	require.ErrorIs(t, err, application.ErrInvalidAddress)

	_, err = svc.PrepareTransfer(
		ctx, sender.Address(), sender.Address(), 10_000_000,
	)
	require.ErrorIs(t, err, application.ErrSameAddress)
}

func TestGetBalance(t *testing.T) {
	holder := newTestWallet()
	feeReceiver := newTestWallet()

	tronClient := &mockTronClient{}
	tronClient.On("GetTokenBalance", mock.Anything, holder.Address()).
		Return(uint64(42_500_000), nil)

	svc, err := application.NewTransactionService(
		tronClient, feeReceiver.Address(), 1_000_000,
	)
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, holder.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(42_500_000), balance.Units)
	require.Equal(t, "42.5", balance.Amount())

	_, err = svc.GetBalance(ctx, "garbage")
	require.ErrorIs(t, err, application.ErrInvalidAddress)
}
