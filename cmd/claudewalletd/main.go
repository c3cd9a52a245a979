package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	appconfig "github.com/novacoinotc/claudewallet/internal/app-config"
	"github.com/novacoinotc/claudewallet/internal/config"
	"github.com/novacoinotc/claudewallet/internal/core/application"
	"github.com/novacoinotc/claudewallet/internal/interfaces"
	http_interface "github.com/novacoinotc/claudewallet/internal/interfaces/http"
	"github.com/novacoinotc/claudewallet/pkg/profiler"
)

var (
	// Build info.
	version string
	commit  string
	date    string

	// Config from env vars.
	logLevel        = config.GetInt(config.LogLevelKey)
	datadir         = config.GetDatadir()
	port            = config.GetInt(config.PortKey)
	profilerPort    = config.GetInt(config.ProfilerPortKey)
	noProfiler      = config.GetBool(config.NoProfilerKey)
	profilerDir     = filepath.Join(datadir, config.ProfilerLocation)
	statsInterval   = time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	nodeURL         = config.GetString(config.TronNodeURLKey)
	contractAddress = config.GetString(config.ContractAddressKey)
	feeReceiver     = config.GetString(config.FeeReceiverKey)
	sponsorKey      = config.GetString(config.SponsorPrivateKeyKey)
	feeAmount       = config.GetString(config.FeeAmountKey)
	feeLimit        = config.GetInt(config.FeeLimitKey)
	energyFloor     = config.GetUint64(config.EnergyFloorKey)
	settlement      = config.GetString(config.SettlementStrategyKey)
	settleDelay     = config.GetDuration(config.SettlementDelayKey)
	settleInterval  = config.GetDuration(config.SettlementPollIntervalKey)
	settleTimeout   = config.GetDuration(config.SettlementPollTimeoutKey)
	rateWindow      = time.Duration(config.GetInt(config.RateLimitWindowKey)) * time.Second
	rateMax         = config.GetInt(config.RateLimitMaxKey)
	allowedOrigins  = config.GetStringSlice(config.AllowedOriginsKey)
)

func main() {
	log.SetLevel(log.Level(logLevel))

	if profilerEnabled := !noProfiler; profilerEnabled {
		profilerSvc, err := profiler.NewService(profiler.ServiceOpts{
			Port:          profilerPort,
			StatsInterval: statsInterval,
			Datadir:       profilerDir,
		})
		if err != nil {
			log.WithError(err).Fatal("profiler: error while starting")
		}

		profilerSvc.Start()
		defer func() {
			profilerSvc.Stop()
		}()
	}

	feeUnits, err := application.ParseTokenAmount(feeAmount)
	if err != nil {
		log.WithError(err).Fatal("config: invalid fee amount")
	}

	serviceCfg := http_interface.ServiceConfig{
		Port:            uint32(port),
		AllowedOrigins:  allowedOrigins,
		RateLimitWindow: rateWindow,
		RateLimitMax:    rateMax,
	}
	appCfg := &appconfig.AppConfig{
		Version:            version,
		Commit:             commit,
		Date:               date,
		NodeURL:            nodeURL,
		ContractAddress:    contractAddress,
		FeeReceiverAddress: feeReceiver,
		SponsorPrivateKey:  sponsorKey,
		FeeUnits:           feeUnits,
		FeeLimitSun:        int64(feeLimit),
		EnergyFloor:        energyFloor,
		SettlementStrategy: settlement,
		SettlementDelay:    settleDelay,
		SettlementInterval: settleInterval,
		SettlementTimeout:  settleTimeout,
	}

	serviceManager, err := interfaces.NewHTTPServiceManager(serviceCfg, appCfg)
	if err != nil {
		log.WithError(err).Fatal("service: error while initializing")
	}
	defer func() {
		serviceManager.Service.Stop()
	}()

	go func() {
		if err := serviceManager.Service.Start(); err != nil {
			log.WithError(err).Fatal("service: error while serving")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
}
