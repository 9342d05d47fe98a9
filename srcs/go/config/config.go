package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGroupWidth = 8
)

const (
	ConnRetryCount  = 500
	ConnRetryPeriod = 200 * time.Millisecond
)

const (
	LogLevelEnvKey             = `HIA2A_CONFIG_LOG_LEVEL`
	UseUnixSockEnvKey          = `HIA2A_CONFIG_USE_UNIX_SOCK`
	EnableStallDetectionEnvKey = `HIA2A_CONFIG_ENABLE_STALL_DETECTION`
	GroupWidthEnvKey           = `HIA2A_GROUP_WIDTH`
	ExchangeEnvKey             = `HIA2A_EXCHANGE`
	MaxStageBytesEnvKey        = `HIA2A_MAX_STAGE_BYTES`
	EnableMonitoringEnvKey     = `HIA2A_CONFIG_ENABLE_MONITORING`
	MonitoringPeriodEnvKey     = `HIA2A_CONFIG_MONITORING_PERIOD`
)

// ConfigEnvKeys are forwarded from the launcher to every worker.
var ConfigEnvKeys = []string{
	LogLevelEnvKey,
	UseUnixSockEnvKey,
	EnableStallDetectionEnvKey,
	GroupWidthEnvKey,
	ExchangeEnvKey,
	MaxStageBytesEnvKey,
	EnableMonitoringEnvKey,
	MonitoringPeriodEnvKey,
}

var (
	LogLevel             = `INFO`
	UseUnixSock          = false
	EnableStallDetection = false
	GroupWidth           = DefaultGroupWidth
	DefaultExchange      = ExchangeCollective
	MaxStageBytes        = 0
	EnableMonitoring     = false
	MonitoringPeriod     = 1 * time.Second
)

// MonitoringPortOffset is added to the peer port for its monitoring server.
const MonitoringPortOffset = 10000

func init() {
	if val := os.Getenv(LogLevelEnvKey); len(val) > 0 {
		LogLevel = strings.ToUpper(val)
	}
	if val := os.Getenv(UseUnixSockEnvKey); len(val) > 0 {
		UseUnixSock = isTrue(val)
	}
	if val := os.Getenv(EnableStallDetectionEnvKey); len(val) > 0 {
		EnableStallDetection = isTrue(val)
	}
	if val := os.Getenv(GroupWidthEnvKey); len(val) > 0 {
		GroupWidth = mustParseInt(GroupWidthEnvKey, val)
	}
	if val := os.Getenv(ExchangeEnvKey); len(val) > 0 {
		e, err := ParseExchange(val)
		if err != nil {
			exitErr(err)
		}
		DefaultExchange = e
	}
	if val := os.Getenv(MaxStageBytesEnvKey); len(val) > 0 {
		MaxStageBytes = mustParseInt(MaxStageBytesEnvKey, val)
	}
	if val := os.Getenv(EnableMonitoringEnvKey); len(val) > 0 {
		EnableMonitoring = isTrue(val)
	}
	if val := os.Getenv(MonitoringPeriodEnvKey); len(val) > 0 {
		d, err := time.ParseDuration(val)
		if err != nil {
			exitErr(fmt.Errorf("invalid %s: %q", MonitoringPeriodEnvKey, val))
		}
		MonitoringPeriod = d
	}
}

func isTrue(val string) bool {
	return val == "true"
}

func mustParseInt(key, val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		exitErr(fmt.Errorf("invalid %s: %q", key, val))
	}
	return n
}

// log and utils depend on this package, so it reports on its own.
func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
	os.Exit(1)
}
