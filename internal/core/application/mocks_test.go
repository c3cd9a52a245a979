package application_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

// ports.TronClient
type mockTronClient struct {
	mock.Mock
}

func (m *mockTronClient) GetTokenBalance(
	ctx context.Context, address string,
) (uint64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTronClient) GetTrxBalance(
	ctx context.Context, address string,
) (uint64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTronClient) GetAccountResources(
	ctx context.Context, address string,
) (*domain.AccountResources, error) {
	args := m.Called(ctx, address)
	var res *domain.AccountResources
	if a := args.Get(0); a != nil {
		res = a.(*domain.AccountResources)
	}
	return res, args.Error(1)
}

func (m *mockTronClient) BuildTokenTransfer(
	ctx context.Context, from, to string, amount uint64,
) (*domain.UnsignedTransaction, error) {
	args := m.Called(ctx, from, to, amount)
	var res *domain.UnsignedTransaction
	if a := args.Get(0); a != nil {
		res = a.(*domain.UnsignedTransaction)
	}
	return res, args.Error(1)
}

func (m *mockTronClient) BroadcastTransaction(
	ctx context.Context, tx *domain.SignedTransaction,
) (*domain.BroadcastResult, error) {
	args := m.Called(ctx, tx)
	var res *domain.BroadcastResult
	if a := args.Get(0); a != nil {
		res = a.(*domain.BroadcastResult)
	}
	return res, args.Error(1)
}

func (m *mockTronClient) GetTransactionStatus(
	ctx context.Context, txid string,
) (*domain.TransactionStatus, error) {
	args := m.Called(ctx, txid)
	var res *domain.TransactionStatus
	if a := args.Get(0); a != nil {
		res = a.(*domain.TransactionStatus)
	}
	return res, args.Error(1)
}

// domain.WalletRepository backed by a map, enough for service tests.
type inMemoryWalletRepo struct {
	wallets map[string]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) SaveWallet(
	_ context.Context, w *domain.Wallet,
) error {
	r.wallets[w.ID] = w
	return nil
}

func (r *inMemoryWalletRepo) GetWallet(
	_ context.Context, id string,
) (*domain.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return w, nil
}

func (r *inMemoryWalletRepo) DeleteWallet(_ context.Context, id string) error {
	if _, ok := r.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(r.wallets, id)
	return nil
}

// fakeBundleCypher is a reversible stand-in for the real AES cypher: the
// ciphertext is the password followed by a separator and the plaintext,
// and decryption fails unless the password prefix matches.
type fakeBundleCypher struct{}

func (fakeBundleCypher) Encrypt(plaintext, password []byte) ([]byte, error) {
	buf := make([]byte, 0, len(password)+1+len(plaintext))
	buf = append(buf, password...)
	buf = append(buf, 0x00)
	buf = append(buf, plaintext...)
	return buf, nil
}

func (fakeBundleCypher) Decrypt(ciphertext, password []byte) ([]byte, error) {
	prefix := append(append([]byte{}, password...), 0x00)
	if !bytes.HasPrefix(ciphertext, prefix) {
		return nil, fmt.Errorf("cipher: message authentication failed")
	}
	out := make([]byte, len(ciphertext)-len(prefix))
	copy(out, ciphertext[len(prefix):])
	return out, nil
}

func randomTx() *domain.UnsignedTransaction {
	raw := make([]byte, 64)
	rand.Read(raw)
	digest := sha256.Sum256(raw)
	return &domain.UnsignedTransaction{
		TxID:       hex.EncodeToString(digest[:]),
		RawDataHex: hex.EncodeToString(raw),
	}
}

func signTx(
	w *wallet.Wallet, tx *domain.UnsignedTransaction,
) *domain.SignedTransaction {
	digest, err := tx.Digest()
	if err != nil {
		panic(err)
	}
	sig, err := w.SignDigest(wallet.SignDigestArgs{Digest: digest})
	if err != nil {
		panic(err)
	}
	return &domain.SignedTransaction{
		UnsignedTransaction: *tx,
		Signature:           []string{hex.EncodeToString(sig)},
	}
}

func newTestWallet() *wallet.Wallet {
	w, err := wallet.NewWallet(wallet.NewWalletArgs{})
	if err != nil {
		panic(err)
	}
	return w
}
