package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/novacoinotc/claudewallet/internal/core/ports"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

// SponsorService guards the sponsor account that pays gas for every
// relayed transfer. It answers two questions:
//   - CheckReady: can the sponsor underwrite a transfer right now? The
//     energy reading is taken fresh on every call, never cached, so a
//     drained sponsor is detected before any leg is broadcast.
//   - Status: a report of the sponsor's current capacity for operators.
type SponsorService struct {
	tronClient  ports.TronClient
	sponsor     *wallet.Wallet
	energyFloor uint64

	log func(format string, a ...interface{})
}

func NewSponsorService(
	tronClient ports.TronClient, sponsor *wallet.Wallet, energyFloor uint64,
) (*SponsorService, error) {
	if sponsor == nil {
		return nil, fmt.Errorf("missing sponsor wallet")
	}
	if energyFloor == 0 {
		return nil, fmt.Errorf("energy floor must be positive")
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("sponsor service: %s", format)
		log.Debugf(format, a...)
	}
	return &SponsorService{tronClient, sponsor, energyFloor, logFn}, nil
}

func (ss *SponsorService) Address() string { return ss.sponsor.Address() }

func (ss *SponsorService) Wallet() *wallet.Wallet { return ss.sponsor }

// CheckReady returns nil if the sponsor holds at least the configured
// energy floor, a SponsorUnderfundedError otherwise.
func (ss *SponsorService) CheckReady(ctx context.Context) error {
	res, err := ss.tronClient.GetAccountResources(ctx, ss.sponsor.Address())
	if err != nil {
		return fmt.Errorf("failed to read sponsor resources: %s", err)
	}

	available := res.EnergyAvailable()
	ss.log("energy available %d, floor %d", available, ss.energyFloor)

	if available < ss.energyFloor {
		return &SponsorUnderfundedError{
			EnergyAvailable: available,
			EnergyFloor:     ss.energyFloor,
		}
	}
	return nil
}

func (ss *SponsorService) Status(ctx context.Context) (*SponsorStatus, error) {
	res, err := ss.tronClient.GetAccountResources(ctx, ss.sponsor.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to read sponsor resources: %s", err)
	}

	trxBalance, err := ss.tronClient.GetTrxBalance(ctx, ss.sponsor.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to read sponsor balance: %s", err)
	}

	available := res.EnergyAvailable()
	return &SponsorStatus{
		Address:         ss.sponsor.Address(),
		Ready:           available >= ss.energyFloor,
		EnergyAvailable: available,
		EnergyLimit:     res.EnergyLimit,
		EnergyFloor:     ss.energyFloor,
		TrxBalance:      trxBalance,
	}, nil
}
