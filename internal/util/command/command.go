// Package command holds the scaffolding shared by CLI subcommands:
// grouping, logger setup, and the config-to-client bootstrap.
package command

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
	"github.com/zilpool/go-zil-wallet/internal/config"
	"github.com/zilpool/go-zil-wallet/internal/util"
)

// NewSubcommandGroup wires subcommands under a parent command that prints
// usage when invoked bare.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(subcommands...)

	return cmd
}

// ApplyLogger configures the global zerolog logger from config.
func ApplyLogger(cfg config.LoggerConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// WithClient resolves configuration, applies logging, connects a JSON-RPC
// client to the configured node, and runs fn under a signal-aware context.
func WithClient(fn func(ctx context.Context, cfg config.Config, client *provider.Provider) error) error {
	cfg := config.DefaultConfigFromEnv()
	ApplyLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = util.WithLogger(ctx, log.Logger)

	log.Debug().Str("node", cfg.NodeURL).Str("network", cfg.Network.Name).Msg("Connecting to node")

	return fn(ctx, cfg, provider.New(cfg.NodeURL))
}

// WithConfig resolves configuration and applies logging for subcommands
// that never touch the network.
func WithConfig(fn func(cfg config.Config) error) error {
	cfg := config.DefaultConfigFromEnv()
	ApplyLogger(cfg.Logger)

	return fn(cfg)
}
