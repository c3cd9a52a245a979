package application

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

const walletID = "wallet"

// WalletService is responsible for operations related to the managment of the
// local wallet:
// 	* Generate a new random 12-words mnemonic.
// 	* Create a new wallet from scratch with given mnemonic and locked with the given password.
// 	* Restore a wallet from a mnemonic, or import one from a raw private key.
// 	* Unlock the wallet with a password, yielding a signing wallet.
// 	* Get the wallet address without a password.
// 	* Delete the stored wallet.
//
// Secret material never leaves this service unencrypted except through
// Unlock, whose caller owns the returned signing wallet.
type WalletService struct {
	walletRepo domain.WalletRepository

	initialized bool
	lock        *sync.RWMutex
}

func NewWalletService(walletRepo domain.WalletRepository) *WalletService {
	ws := &WalletService{
		walletRepo: walletRepo,
		lock:       &sync.RWMutex{},
	}
	w, _ := ws.walletRepo.GetWallet(context.Background(), walletID)
	if w != nil {
		ws.setInitialized(true)
	}
	return ws
}

func (ws *WalletService) GenSeed(_ context.Context) ([]string, error) {
	return wallet.NewMnemonic(wallet.NewMnemonicArgs{})
}

func (ws *WalletService) CreateWallet(
	ctx context.Context, mnemonic []string, password string,
) (addr string, err error) {
	defer func() {
		if err == nil {
			ws.setInitialized(true)
		}
	}()

	if ws.isInitialized() {
		return "", ErrWalletAlreadyExists
	}

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicArgs{
		Mnemonic: mnemonic,
	})
	if err != nil {
		return
	}

	return ws.storeWallet(ctx, w, password)
}

func (ws *WalletService) RestoreWallet(
	ctx context.Context, mnemonic []string, password string,
) (addr string, err error) {
	return ws.CreateWallet(ctx, mnemonic, password)
}

func (ws *WalletService) ImportPrivateKey(
	ctx context.Context, privateKeyHex, password string,
) (addr string, err error) {
	defer func() {
		if err == nil {
			ws.setInitialized(true)
		}
	}()

	if ws.isInitialized() {
		return "", ErrWalletAlreadyExists
	}

	buf, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return "", fmt.Errorf("invalid private key hex: %s", err)
	}

	w, err := wallet.NewWalletFromKey(wallet.NewWalletFromKeyArgs{
		PrivateKey: buf,
	})
	if err != nil {
		return
	}

	return ws.storeWallet(ctx, w, password)
}

// GetAddress returns the wallet address. The address is stored in clear
// alongside the encrypted secrets, so no password is required.
func (ws *WalletService) GetAddress(ctx context.Context) (string, error) {
	w, err := ws.walletRepo.GetWallet(ctx, walletID)
	if err != nil {
		return "", err
	}
	return w.Address, nil
}

// Unlock decrypts the stored secrets and returns a signing wallet. The
// caller is responsible for discarding it once done.
func (ws *WalletService) Unlock(
	ctx context.Context, password string,
) (*wallet.Wallet, error) {
	stored, err := ws.walletRepo.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	bundle, err := stored.Unlock(password)
	if err != nil {
		return nil, err
	}

	if len(bundle.Mnemonic) > 0 {
		return wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicArgs{
			Mnemonic: bundle.Mnemonic,
		})
	}
	return wallet.NewWalletFromKey(wallet.NewWalletFromKeyArgs{
		PrivateKey: bundle.PrivateKey,
	})
}

func (ws *WalletService) Exists(_ context.Context) bool {
	return ws.isInitialized()
}

// DeleteWallet removes the stored wallet. The password is verified first
// so that only the owner can wipe the secrets.
func (ws *WalletService) DeleteWallet(
	ctx context.Context, password string,
) (err error) {
	defer func() {
		if err == nil {
			ws.setInitialized(false)
		}
	}()

	stored, err := ws.walletRepo.GetWallet(ctx, walletID)
	if err != nil {
		return err
	}
	if _, err := stored.Unlock(password); err != nil {
		return err
	}

	return ws.walletRepo.DeleteWallet(ctx, walletID)
}

func (ws *WalletService) storeWallet(
	ctx context.Context, w *wallet.Wallet, password string,
) (string, error) {
	bundle := domain.SecretBundle{
		Mnemonic:   w.Mnemonic(),
		PrivateKey: w.PrivateKeyBytes(),
		Address:    w.Address(),
	}
	newWallet, err := domain.NewWallet(
		walletID, bundle, wallet.DerivationPath, password,
	)
	if err != nil {
		return "", err
	}

	if err := ws.walletRepo.SaveWallet(ctx, newWallet); err != nil {
		return "", err
	}
	return w.Address(), nil
}

func (ws *WalletService) setInitialized(v bool) {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	ws.initialized = v
}

func (ws *WalletService) isInitialized() bool {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	return ws.initialized
}
