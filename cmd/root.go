package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/Mohsinsiddi/lcurate/internal/notify"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/lcurate/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir   string
	cfg      *config.Config
	verbose  bool
	network  string
	log      = zap.NewNop()
	notifier = notify.NewConsole(os.Stderr)
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "lcurate",
	Short: "Browse and curate the Light Curate list of decentralized frontends",
	Long: `lcurate — terminal client for the Light Curate registry of decentralized frontends.

  Browse listed frontends, submit a new one, request the removal of a listing
  or challenge a pending request. Deposits are read from the registry contract
  and transactions are signed by a wallet kept in your OS keychain.

Configuration lives in ~/.lcurate (override with --config or LCURATE_CONFIG_DIR).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = newLogger(verbose)
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if network != "" {
			cfg.Network = network
		}
		log.Debug("config loaded", zap.String("dir", cfg.Dir()), zap.String("network", cfg.Network))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command. SIGINT cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, ui.ErrAborted) {
			fmt.Fprintln(os.Stderr, ui.Meta("Cancelled."))
			os.Exit(1)
		}
		if !isShown(err) {
			notifier.Fail(err)
		}
		log.Debug("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds a console logger on stderr: debug with --verbose, warnings otherwise.
func newLogger(debug bool) *zap.Logger {
	level := zap.WarnLevel
	if debug {
		level = zap.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func init() {
	// LCURATE_CONFIG_DIR env var sets the default for --config.
	if envDir := os.Getenv("LCURATE_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.lcurate)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&network, "network", "n", "", "chain the registry lives on (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "approve wallet prompts without asking")

	rootCmd.AddCommand(
		initCmd,
		listCmd,
		showCmd,
		statsCmd,
		depositsCmd,
		submitCmd,
		removeCmd,
		challengeCmd,
		connectCmd,
		accountCmd,
		disconnectCmd,
		walletCmd,
		networkCmd,
		rpcCmd,
		configCmd,
		historyCmd,
	)
}
