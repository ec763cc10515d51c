// Package config resolves runtime configuration, env-first with an
// optional profile file merged underneath.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ModuleName identifies this module in CLI output.
const ModuleName = "go-zil-wallet"

// Network is a chain profile. The transaction version word packs the
// chain id into the high 16 bits and the message version into the low 16.
type Network struct {
	Name       string `json:"name"`
	ChainID    uint32 `json:"chain_id"`
	MsgVersion uint32 `json:"msg_version"`
	Endpoint   string `json:"endpoint"`
}

// Version returns the packed transaction version word for this network.
func (n Network) Version() uint32 {
	return n.ChainID<<16 | n.MsgVersion
}

// Built-in network profiles.
var (
	Mainnet  = Network{Name: "mainnet", ChainID: 1, MsgVersion: 1, Endpoint: "https://api.zilliqa.com"}
	Testnet  = Network{Name: "testnet", ChainID: 333, MsgVersion: 1, Endpoint: "https://dev-api.zilliqa.com"}
	Isolated = Network{Name: "isolated", ChainID: 222, MsgVersion: 1, Endpoint: "http://localhost:5555"}
)

// NetworkByName resolves a built-in profile by name.
func NetworkByName(name string) (Network, error) {
	switch strings.ToLower(name) {
	case Mainnet.Name:
		return Mainnet, nil
	case Testnet.Name:
		return Testnet, nil
	case Isolated.Name:
		return Isolated, nil
	default:
		return Network{}, errors.Errorf("unknown network %q", name)
	}
}

// LoggerConfig controls CLI log output.
type LoggerConfig struct {
	Level              string `json:"level"`
	PrettyPrintConsole bool   `json:"pretty_print_console"`
}

// TrackerConfig tunes confirmation polling.
type TrackerConfig struct {
	Timeout      time.Duration `json:"timeout"`
	PollInterval time.Duration `json:"poll_interval"`
}

// Config is the resolved runtime configuration.
type Config struct {
	Network  Network       `json:"network"`
	NodeURL  string        `json:"node_url"`
	Keystore string        `json:"keystore"`
	Tracker  TrackerConfig `json:"tracker"`
	Logger   LoggerConfig  `json:"logger"`
}

// DefaultConfigFromEnv resolves configuration from ZIL_* environment
// variables over built-in defaults, with an optional config file
// (./zil-wallet.yaml or $HOME/.zil-wallet.yaml) merged in between.
func DefaultConfigFromEnv() Config {
	v := viper.New()
	v.SetEnvPrefix("ZIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", Testnet.Name)
	v.SetDefault("node_url", "")
	v.SetDefault("keystore", "")
	v.SetDefault("tracker.timeout", 90*time.Second)
	v.SetDefault("tracker.poll_interval", 2*time.Second)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.pretty_print_console", true)

	v.SetConfigName("zil-wallet")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	// A missing config file is fine, env and defaults carry the day.
	_ = v.ReadInConfig()

	network, err := NetworkByName(v.GetString("network"))
	if err != nil {
		network = Testnet
	}

	nodeURL := v.GetString("node_url")
	if nodeURL == "" {
		nodeURL = network.Endpoint
	}

	return Config{
		Network:  network,
		NodeURL:  nodeURL,
		Keystore: v.GetString("keystore"),
		Tracker: TrackerConfig{
			Timeout:      v.GetDuration("tracker.timeout"),
			PollInterval: v.GetDuration("tracker.poll_interval"),
		},
		Logger: LoggerConfig{
			Level:              v.GetString("logger.level"),
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
	}
}
