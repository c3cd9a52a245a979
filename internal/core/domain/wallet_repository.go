package domain

import "context"

// WalletRepository is the abstraction for any kind of database storing the
// encrypted wallet bundle. The store is keyed by an explicit wallet id even
// though only one wallet is supported today, so that multi-wallet support
// doesn't require changing the interface.
type WalletRepository interface {
	// SaveWallet persists the wallet, overwriting any wallet already stored
	// under the same id.
	SaveWallet(ctx context.Context, wallet *Wallet) error
	// GetWallet returns the wallet stored under the given id, or
	// ErrWalletNotFound.
	GetWallet(ctx context.Context, id string) (*Wallet, error)
	// DeleteWallet removes the wallet stored under the given id. Deleting is
	// irreversible and is the only supported recovery path for a forgotten
	// password.
	DeleteWallet(ctx context.Context, id string) error
}
