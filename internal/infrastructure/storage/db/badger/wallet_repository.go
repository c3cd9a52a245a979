package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
)

type walletRepository struct {
	store *badgerhold.Store

	log func(format string, a ...interface{})
}

// NewWalletRepository is the factory for the badger implementation of
// domain.WalletRepository. It creates the db files under baseDbDir, or an
// in-memory db if no dir is provided (to be used only for testing
// purposes).
func NewWalletRepository(
	baseDbDir string, logger badger.Logger,
) (domain.WalletRepository, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "wallet")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("wallet repository: %s", format)
		log.Debugf(format, a...)
	}
	return &walletRepository{store, logFn}, nil
}

func (r *walletRepository) SaveWallet(
	_ context.Context, wallet *domain.Wallet,
) error {
	if err := r.store.Upsert(wallet.ID, *wallet); err != nil {
		return err
	}
	r.log("saved wallet %s", wallet.ID)
	return nil
}

func (r *walletRepository) GetWallet(
	_ context.Context, id string,
) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.store.Get(id, &wallet); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) DeleteWallet(_ context.Context, id string) error {
	if err := r.store.Delete(id, domain.Wallet{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrWalletNotFound
		}
		return err
	}
	r.log("deleted wallet %s", id)
	return nil
}

func (r *walletRepository) Close() error {
	return r.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
					log.Warnf("garbage collector: %s", err)
				}
			}
		}()
	}

	return db, nil
}
