package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"

	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

const (
	// DatadirKey is the key to customize the daemon datadir.
	DatadirKey = "DATADIR"
	// PortKey is the key to customize the port where the REST interface will
	// be listening to.
	PortKey = "PORT"
	// ProfilerPortKey is the key to customize the port where the profiler will
	// be listening to.
	ProfilerPortKey = "PROFILER_PORT"
	// LogLevelKey is the key to customize the log level to catch more specific
	// or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// NoProfilerKey is the key to disable Prometheus profiling.
	NoProfilerKey = "NO_PROFILER"
	// StatsIntervalKey is the key to customize the interval for the profiler to
	// gather profiling stats.
	StatsIntervalKey = "STATS_INTERVAL"
	// TronNodeURLKey is the key to set the HTTP API endpoint of the TRON full
	// node to connect to.
	TronNodeURLKey = "TRON_NODE_URL"
	// ContractAddressKey is the key to set the TRC20 token contract address.
	ContractAddressKey = "USDT_CONTRACT_ADDRESS"
	// FeeReceiverKey is the key to set the address collecting service fees.
	FeeReceiverKey = "FEE_RECEIVER_ADDRESS"
	// SponsorPrivateKeyKey is the key to set the hex private key of the
	// account sponsoring gas for relayed transfers.
	SponsorPrivateKeyKey = "SPONSOR_PRIVATE_KEY"
	// FeeAmountKey is the key to customize the flat service fee, expressed as
	// a decimal token amount.
	FeeAmountKey = "FEE_AMOUNT_USDT"
	// FeeLimitKey is the key to customize the max gas in sun a relayed
	// transaction may burn.
	FeeLimitKey = "FEE_LIMIT_SUN"
	// EnergyFloorKey is the key to customize the min sponsor energy required
	// to accept transfers.
	EnergyFloorKey = "ENERGY_FLOOR"
	// SettlementStrategyKey is the key to choose how to wait for the fee leg
	// to settle before broadcasting the principal one (delay, poll).
	SettlementStrategyKey = "SETTLEMENT_STRATEGY"
	// SettlementDelayKey is the key to customize the flat wait in milliseconds
	// of the delay settlement strategy.
	SettlementDelayKey = "SETTLEMENT_DELAY_MS"
	// SettlementPollIntervalKey is the key to customize the polling cadence in
	// milliseconds of the poll settlement strategy.
	SettlementPollIntervalKey = "SETTLEMENT_POLL_INTERVAL_MS"
	// SettlementPollTimeoutKey is the key to customize how long in
	// milliseconds the poll settlement strategy waits before giving up.
	SettlementPollTimeoutKey = "SETTLEMENT_POLL_TIMEOUT_MS"
	// RateLimitWindowKey is the key to customize the rate limit window in
	// seconds.
	RateLimitWindowKey = "RATE_LIMIT_WINDOW_SECONDS"
	// RateLimitMaxKey is the key to customize the max requests per client
	// within the rate limit window.
	RateLimitMaxKey = "RATE_LIMIT_MAX_REQUESTS"
	// AllowedOriginsKey is the key to customize the CORS allow list.
	AllowedOriginsKey = "ALLOWED_ORIGINS"

	// ProfilerLocation is the folder inside the datadir containing profiler
	// stats files.
	ProfilerLocation = "stats"
)

var (
	vip *viper.Viper

	defaultDatadir        = btcutil.AppDataDir("claudewalletd", false)
	defaultPort           = 3001
	defaultProfilerPort   = 3002
	defaultLogLevel       = 4
	defaultStatsInterval  = 600 // 10 minutes
	defaultFeeAmount      = "1"
	defaultFeeLimit       = 100_000_000 // 100 TRX
	defaultEnergyFloor    = 50_000
	defaultSettlement     = "delay"
	defaultDelayMs        = 3000
	defaultPollIntervalMs = 1000
	defaultPollTimeoutMs  = 60_000
	defaultRateWindowSecs = 900 // 15 minutes
	defaultRateMax        = 100

	// Mainnet USDT contract.
	defaultContractAddress = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

	SupportedSettlementStrategies = supportedType{
		"delay": {},
		"poll":  {},
	}
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("CLAUDEWALLET")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(PortKey, defaultPort)
	vip.SetDefault(LogLevelKey, defaultLogLevel)
	vip.SetDefault(NoProfilerKey, false)
	vip.SetDefault(ProfilerPortKey, defaultProfilerPort)
	vip.SetDefault(StatsIntervalKey, defaultStatsInterval)
	vip.SetDefault(ContractAddressKey, defaultContractAddress)
	vip.SetDefault(FeeAmountKey, defaultFeeAmount)
	vip.SetDefault(FeeLimitKey, defaultFeeLimit)
	vip.SetDefault(EnergyFloorKey, defaultEnergyFloor)
	vip.SetDefault(SettlementStrategyKey, defaultSettlement)
	vip.SetDefault(SettlementDelayKey, defaultDelayMs)
	vip.SetDefault(SettlementPollIntervalKey, defaultPollIntervalMs)
	vip.SetDefault(SettlementPollTimeoutKey, defaultPollTimeoutMs)
	vip.SetDefault(RateLimitWindowKey, defaultRateWindowSecs)
	vip.SetDefault(RateLimitMaxKey, defaultRateMax)

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	if err := initDatadir(); err != nil {
		log.Fatalf("config: error while creating datadir: %s", err)
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	settlement := GetString(SettlementStrategyKey)
	if _, ok := SupportedSettlementStrategies[settlement]; !ok {
		return fmt.Errorf(
			"unsupported settlement strategy, must be one of %s",
			SupportedSettlementStrategies,
		)
	}

	if contract := GetString(ContractAddressKey); !wallet.IsValidAddress(contract) {
		return fmt.Errorf("invalid token contract address")
	}
	if feeReceiver := GetString(FeeReceiverKey); len(feeReceiver) > 0 {
		if !wallet.IsValidAddress(feeReceiver) {
			return fmt.Errorf("invalid fee receiver address")
		}
	}

	port := GetInt(PortKey)
	noProfiler := GetBool(NoProfilerKey)
	if !noProfiler {
		profilerPort := GetInt(ProfilerPortKey)
		if port == profilerPort {
			return fmt.Errorf("port and profiler port must not be equal")
		}
	}

	return nil
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDuration(key string) time.Duration {
	return time.Duration(GetInt(key)) * time.Millisecond
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

func Unset(key string) {
	vip.Set(key, nil)
}

func IsSet(key string) bool {
	return vip.IsSet(key)
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}

	noProfiler := GetBool(NoProfilerKey)
	if !noProfiler {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}
