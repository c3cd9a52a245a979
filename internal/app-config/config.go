package appconfig

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/novacoinotc/claudewallet/internal/core/application"
	"github.com/novacoinotc/claudewallet/internal/core/ports"
	"github.com/novacoinotc/claudewallet/internal/infrastructure/tron-client/fullnode"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

const (
	SettlementDelay = "delay"
	SettlementPoll  = "poll"
)

// AppConfig is the struct holding all configuration options for every
// application service of the daemon (transaction, sponsor and relay).
// Wallet custody stays on the client, so no wallet store is wired here.
// This data
// structure acts also as a factory of the mentioned services and of the
// portable services used by them.
// Public config args:
//   - NodeURL - (required) The TRON full node HTTP API endpoint.
//   - ContractAddress - (required) The TRC20 token contract address.
//   - FeeReceiverAddress - (required) Address collecting the service fee leg.
//   - SponsorPrivateKey - (required) Hex private key of the gas sponsor.
//   - FeeUnits - (required) Flat service fee in token base units.
//   - FeeLimitSun - (required) Max gas, in sun, a relayed tx may burn.
//   - EnergyFloor - (required) Min sponsor energy to accept transfers.
//   - SettlementStrategy - (required) How to wait for the fee leg (delay, poll).
type AppConfig struct {
	Version string
	Commit  string
	Date    string

	NodeURL            string
	ContractAddress    string
	FeeReceiverAddress string
	SponsorPrivateKey  string
	FeeUnits           uint64
	FeeLimitSun        int64
	EnergyFloor        uint64

	SettlementStrategy string
	SettlementDelay    time.Duration
	SettlementInterval time.Duration
	SettlementTimeout  time.Duration

	tronClient ports.TronClient
	txSvc      *application.TransactionService
	sponsorSvc *application.SponsorService
	relaySvc   *application.RelayService
}

func (c *AppConfig) Validate() error {
	if c.NodeURL == "" {
		return fmt.Errorf("missing node url")
	}
	if !wallet.IsValidAddress(c.ContractAddress) {
		return fmt.Errorf("invalid token contract address")
	}
	if !wallet.IsValidAddress(c.FeeReceiverAddress) {
		return fmt.Errorf("invalid fee receiver address")
	}
	if c.SponsorPrivateKey == "" {
		return fmt.Errorf("missing sponsor private key")
	}
	if c.FeeUnits == 0 {
		return fmt.Errorf("missing fee amount")
	}
	if c.FeeLimitSun <= 0 {
		return fmt.Errorf("missing fee limit")
	}
	if c.EnergyFloor == 0 {
		return fmt.Errorf("missing energy floor")
	}
	switch c.SettlementStrategy {
	case SettlementDelay, SettlementPoll:
	default:
		return fmt.Errorf(
			"settlement strategy not supported, must be one of: %s %s",
			SettlementDelay, SettlementPoll,
		)
	}
	if _, err := c.tron(); err != nil {
		return err
	}
	if _, err := c.sponsorService(); err != nil {
		return err
	}
	if _, err := c.transactionService(); err != nil {
		return err
	}
	if _, err := c.relayService(); err != nil {
		return err
	}
	return nil
}

func (c *AppConfig) TronClient() ports.TronClient {
	svc, _ := c.tron()
	return svc
}

func (c *AppConfig) TransactionService() *application.TransactionService {
	svc, _ := c.transactionService()
	return svc
}

func (c *AppConfig) SponsorService() *application.SponsorService {
	svc, _ := c.sponsorService()
	return svc
}

func (c *AppConfig) RelayService() *application.RelayService {
	svc, _ := c.relayService()
	return svc
}

func (c *AppConfig) BuildInfo() application.BuildInfo {
	return application.BuildInfo{
		Version: c.Version, Commit: c.Commit, Date: c.Date,
	}
}

func (c *AppConfig) tron() (ports.TronClient, error) {
	if c.tronClient != nil {
		return c.tronClient, nil
	}

	svc, err := fullnode.NewService(c.NodeURL, c.ContractAddress, c.FeeLimitSun)
	if err != nil {
		return nil, err
	}
	c.tronClient = svc
	return c.tronClient, nil
}

func (c *AppConfig) sponsorService() (*application.SponsorService, error) {
	if c.sponsorSvc != nil {
		return c.sponsorSvc, nil
	}

	buf, err := hex.DecodeString(c.SponsorPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid sponsor private key: %s", err)
	}
	sponsor, err := wallet.NewWalletFromKey(wallet.NewWalletFromKeyArgs{
		PrivateKey: buf,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sponsor private key: %s", err)
	}

	tronClient, err := c.tron()
	if err != nil {
		return nil, err
	}
	svc, err := application.NewSponsorService(tronClient, sponsor, c.EnergyFloor)
	if err != nil {
		return nil, err
	}
	c.sponsorSvc = svc
	return c.sponsorSvc, nil
}

func (c *AppConfig) transactionService() (*application.TransactionService, error) {
	if c.txSvc != nil {
		return c.txSvc, nil
	}

	tronClient, err := c.tron()
	if err != nil {
		return nil, err
	}
	svc, err := application.NewTransactionService(
		tronClient, c.FeeReceiverAddress, c.FeeUnits,
	)
	if err != nil {
		return nil, err
	}
	c.txSvc = svc
	return c.txSvc, nil
}

func (c *AppConfig) relayService() (*application.RelayService, error) {
	if c.relaySvc != nil {
		return c.relaySvc, nil
	}

	tronClient, err := c.tron()
	if err != nil {
		return nil, err
	}
	sponsorSvc, err := c.sponsorService()
	if err != nil {
		return nil, err
	}

	var settlement application.SettlementPolicy
	switch c.SettlementStrategy {
	case SettlementPoll:
		settlement = application.NewPollSettlement(
			tronClient, c.SettlementInterval, c.SettlementTimeout,
		)
	default:
		settlement = application.NewDelaySettlement(c.SettlementDelay)
	}

	svc, err := application.NewRelayService(tronClient, sponsorSvc, settlement)
	if err != nil {
		return nil, err
	}
	c.relaySvc = svc
	return c.relaySvc, nil
}
