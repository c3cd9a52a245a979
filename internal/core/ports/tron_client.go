package ports

import (
	"context"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
)

// TronClient is the abstraction for any kind of service representing a TRON
// full node. It exposes the minimal read and broadcast surface the relay
// needs: token and native balances, gas resources, unsigned TRC20 transfer
// building, raw broadcast and transaction status lookup.
type TronClient interface {
	// GetTokenBalance returns the TRC20 token balance of the given address in
	// minor units.
	GetTokenBalance(ctx context.Context, address string) (uint64, error)
	// GetTrxBalance returns the native TRX balance of the given address in
	// sun (1 TRX = 1e6 sun).
	GetTrxBalance(ctx context.Context, address string) (uint64, error)
	// GetAccountResources returns a fresh gas-resource snapshot of the given
	// address. Results must never be cached by implementations: resource
	// levels change with every broadcast.
	GetAccountResources(ctx context.Context, address string) (*domain.AccountResources, error)
	// BuildTokenTransfer asks the node to build an unsigned TRC20
	// transfer(address,uint256) transaction. Nothing is broadcast.
	BuildTokenTransfer(ctx context.Context, from, to string, amount uint64) (*domain.UnsignedTransaction, error)
	// BroadcastTransaction submits a signed transaction to the network.
	BroadcastTransaction(ctx context.Context, tx *domain.SignedTransaction) (*domain.BroadcastResult, error)
	// GetTransactionStatus returns the on-chain status of the transaction
	// identified by its id.
	GetTransactionStatus(ctx context.Context, txid string) (*domain.TransactionStatus, error)
}
