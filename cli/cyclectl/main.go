// cyclectl checks canister cycle balances through dfx and tops up the ones
// running low.
//
// Usage:
//
//	cyclectl topup [canister...]     Top up canisters at or below the threshold
//	cyclectl balance [canister...]   Report balances without depositing
//	cyclectl wallet                  Print the wallet id of the current identity
//	cyclectl patch-candid            Point a dfx.json canister at another candid file
//	cyclectl version                 Print the version
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cyclekit/cli/cyclectl/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newApp(os.Stdout, os.Stderr).rootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cyclectl: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	dfx         string
	network     string
	canisterIDs string
	logLevel    string
	dryRun      bool
}

type app struct {
	opts   options
	cfg    config.HostConfig
	log    *log.Logger
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cyclectl",
		Short:         "Keep Internet Computer canisters topped up with cycles",
		Long:          "cyclectl queries canister cycle balances with dfx and deposits cycles from the identity's wallet when a balance is at or below the threshold.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", "", "path to config.yaml (default $CYCLEKIT_CONFIG or the user config dir)")
	pf.StringVar(&a.opts.dfx, "dfx", "", "dfx binary to run")
	pf.StringVar(&a.opts.network, "network", "", `dfx network ("ic" for mainnet, "" for the local replica)`)
	pf.StringVar(&a.opts.canisterIDs, "canister-ids", "", "canister_ids.json listing the canisters to check")
	pf.StringVar(&a.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.opts.dryRun, "dry-run", false, "print state-changing commands instead of running them")

	cmd.AddCommand(a.topupCmd())
	cmd.AddCommand(a.balanceCmd())
	cmd.AddCommand(a.walletCmd())
	cmd.AddCommand(a.patchCandidCmd())
	cmd.AddCommand(a.versionCmd())
	return cmd
}

// setup loads config, applies flags on top and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.ReadHostConfig(a.opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dfx") {
		cfg.Dfx = a.opts.dfx
	}
	if flags.Changed("network") {
		cfg.Network = a.opts.network
	}
	if flags.Changed("canister-ids") {
		cfg.CanisterIDs = a.opts.canisterIDs
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.opts.logLevel
	}
	a.cfg = cfg

	logger := log.New()
	logger.SetOutput(a.stderr)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("invalid log level %s, defaulting to info", cfg.LogLevel)
	}
	a.log = logger
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cyclectl version",
		Args:  cobra.NoArgs,
		// version must work even when the config file is broken.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cyclectl version %s\n", version)
		},
	}
}
