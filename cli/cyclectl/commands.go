package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cyclekit/cli/cyclectl/internal/canisters"
	"cyclekit/cli/cyclectl/internal/cycles"
	"cyclekit/cli/cyclectl/internal/dfx"
	"cyclekit/cli/cyclectl/internal/dfxconfig"
	"cyclekit/cli/cyclectl/internal/execx"
	"cyclekit/cli/cyclectl/internal/runner"
	"cyclekit/cli/cyclectl/internal/topup"
)

// ---------------------------------------------------------------------------
// cyclectl topup / balance
// ---------------------------------------------------------------------------

type topupFlags struct {
	threshold string
	amount    string
	source    string
}

func (f *topupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.threshold, "threshold", "", "top up at or below this many cycles (default from config)")
	cmd.Flags().StringVar(&f.source, "source", "", `balance source: "status" or "actor" (getActorBalance query)`)
}

func (a *app) topupCmd() *cobra.Command {
	var f topupFlags
	cmd := &cobra.Command{
		Use:   "topup [canister...]",
		Short: "Deposit cycles into canisters at or below the threshold",
		Long: `Resolves the current identity's wallet once, then checks every canister from
canister_ids.json in file order. A canister whose balance is at or below the
threshold receives the configured amount of cycles. Failures on one canister
are logged and do not stop the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.selectCanisters(args)
			if err != nil {
				return err
			}
			it, err := a.iterator(f, true)
			if err != nil {
				return err
			}
			return it.Run(cmd.Context(), names)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.amount, "amount", "", "cycles to deposit per top up (default from config)")
	return cmd
}

func (a *app) balanceCmd() *cobra.Command {
	var f topupFlags
	cmd := &cobra.Command{
		Use:   "balance [canister...]",
		Short: "Report canister balances without depositing",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.selectCanisters(args)
			if err != nil {
				return err
			}
			it, err := a.iterator(f, false)
			if err != nil {
				return err
			}
			return it.Report(cmd.Context(), names)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) selectCanisters(requested []string) ([]string, error) {
	m, err := canisters.Load(a.cfg.CanisterIDs)
	if err != nil {
		return nil, err
	}
	return m.Select(requested)
}

func (a *app) client() *dfx.Client {
	host := execx.Host{Timeout: a.cfg.Timeout}
	c := dfx.New(a.cfg.Dfx, a.cfg.Network, host)
	m := runner.New(host, a.opts.dryRun)
	m.Out = a.stderr
	c.Mutator = m
	return c
}

func (a *app) iterator(f topupFlags, deposits bool) (*topup.Iterator, error) {
	cfg, err := a.topupConfig(f, deposits)
	if err != nil {
		return nil, err
	}
	client := a.client()
	d := topup.NewDecider(cfg, client, a.log)
	return topup.NewIterator(d, client, a.log), nil
}

// topupConfig resolves flags over config. The amount is only validated when
// the command deposits.
func (a *app) topupConfig(f topupFlags, deposits bool) (topup.Config, error) {
	threshold, amount, source := a.cfg.Threshold, a.cfg.Amount, a.cfg.Source
	if f.threshold != "" {
		threshold = f.threshold
	}
	if f.amount != "" {
		amount = f.amount
	}
	if f.source != "" {
		source = f.source
	}
	cfg := topup.Config{DryRun: a.opts.dryRun}
	var err error
	if cfg.Threshold, err = parseCycles("threshold", threshold); err != nil {
		return cfg, err
	}
	if deposits {
		if cfg.Amount, err = parseCycles("amount", amount); err != nil {
			return cfg, err
		}
		if cfg.Amount.Sign() == 0 {
			return cfg, fmt.Errorf("amount must be greater than zero")
		}
	}
	if cfg.Source, err = topup.ParseSource(source); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseCycles accepts dfx-style digit grouping, e.g. 4_000_000_000_000.
func parseCycles(label, s string) (*big.Int, error) {
	n, err := cycles.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// cyclectl wallet
// ---------------------------------------------------------------------------

func (a *app) walletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Print the wallet id of the current dfx identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.client().Wallet(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// cyclectl patch-candid
// ---------------------------------------------------------------------------

func (a *app) patchCandidCmd() *cobra.Command {
	var file, canister, candid string
	cmd := &cobra.Command{
		Use:   "patch-candid",
		Short: "Set canisters.<canister>.candid in dfx.json",
		Long: `Rewrites dfx.json so the given canister (default "ledger") uses another candid
interface file. Key order is kept; the file is written back as compact JSON.
With --dry-run the patched JSON is printed instead of written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = a.cfg.DfxJSON
			}
			entry := a.log.WithField("file", file).WithField("canister", canister)
			if a.opts.dryRun {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading %s: %w", file, err)
				}
				out, err := dfxconfig.SetCandid(data, canister, candid)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			if err := dfxconfig.PatchCandid(file, canister, candid); err != nil {
				entry.WithError(err).Error("patch failed")
				return err
			}
			entry.WithField("candid", candid).Info("candid path updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "dfx.json to patch (default from config)")
	cmd.Flags().StringVar(&canister, "canister", dfxconfig.DefaultCanister, "canister entry to patch")
	cmd.Flags().StringVar(&candid, "candid", dfxconfig.DefaultCandid, "candid file path to set")
	return cmd
}
