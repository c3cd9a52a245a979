package dbbadger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	dbbadger "github.com/novacoinotc/claudewallet/internal/infrastructure/storage/db/badger"
)

var ctx = context.Background()

func TestWalletRepository(t *testing.T) {
	repo, err := dbbadger.NewWalletRepository("", nil)
	require.NoError(t, err)

	_, err = repo.GetWallet(ctx, "wallet")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	wallet := &domain.Wallet{
		ID:              "wallet",
		EncryptedBundle: []byte{0xde, 0xad, 0xbe, 0xef},
		Address:         "TTestAddressBase58Check",
		DerivationPath:  "m/44'/195'/0'/0/0",
		CreatedAt:       time.Now(),
	}
	require.NoError(t, repo.SaveWallet(ctx, wallet))

	found, err := repo.GetWallet(ctx, "wallet")
	require.NoError(t, err)
	require.Equal(t, wallet.ID, found.ID)
	require.Equal(t, wallet.EncryptedBundle, found.EncryptedBundle)
	require.Equal(t, wallet.Address, found.Address)
	require.Equal(t, wallet.DerivationPath, found.DerivationPath)

	// Saving again overwrites the stored wallet.
	wallet.Address = "TAnotherAddress"
	require.NoError(t, repo.SaveWallet(ctx, wallet))
	found, err = repo.GetWallet(ctx, "wallet")
	require.NoError(t, err)
	require.Equal(t, "TAnotherAddress", found.Address)

	require.NoError(t, repo.DeleteWallet(ctx, "wallet"))
	_, err = repo.GetWallet(ctx, "wallet")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
	require.ErrorIs(t, repo.DeleteWallet(ctx, "wallet"), domain.ErrWalletNotFound)
}
