package topup

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	log "github.com/sirupsen/logrus"

	"cyclekit/cli/cyclectl/internal/cycles"
)

const (
	DefaultThreshold = "4000000000000"
	DefaultAmount    = "2000000000000"
)

// Source selects how a canister balance is queried.
type Source string

const (
	// SourceStatus parses `dfx canister status`.
	SourceStatus Source = "status"
	// SourceActor calls the canister's own getActorBalance query.
	SourceActor Source = "actor"
)

// ParseSource accepts "status" or "actor"; empty means status.
func ParseSource(s string) (Source, error) {
	switch Source(strings.TrimSpace(strings.ToLower(s))) {
	case "", SourceStatus:
		return SourceStatus, nil
	case SourceActor:
		return SourceActor, nil
	default:
		return "", fmt.Errorf("unknown balance source %q (want status or actor)", s)
	}
}

// Config holds the fixed numbers for one run.
type Config struct {
	Threshold *big.Int
	Amount    *big.Int
	Source    Source
	// DryRun marks deposits as printed rather than executed.
	DryRun bool
}

// DefaultConfig tops up 2T cycles at or below 4T.
func DefaultConfig() Config {
	return Config{
		Threshold: cycles.MustParse(DefaultThreshold),
		Amount:    cycles.MustParse(DefaultAmount),
		Source:    SourceStatus,
	}
}

// Client is the subset of dfx used by the decider.
type Client interface {
	Status(ctx context.Context, canister string) (string, error)
	ActorBalance(ctx context.Context, canister string) (string, error)
	DepositCycles(ctx context.Context, wallet string, amount *big.Int, canister string) (string, error)
	Wallet(ctx context.Context) (string, error)
}

// Decision is the outcome for one canister.
type Decision struct {
	Canister  string
	Balance   *big.Int
	Threshold *big.Int
	Amount    *big.Int
	ToppedUp  bool
	// DryRun is set instead of ToppedUp when the deposit was only printed.
	DryRun bool
	// Output is what dfx printed for the deposit, if one was issued.
	Output string
}

// Decider runs the query/compare/deposit procedure for single canisters.
type Decider struct {
	cfg    Config
	client Client
	log    log.FieldLogger
}

func NewDecider(cfg Config, client Client, logger log.FieldLogger) *Decider {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.Source == "" {
		cfg.Source = SourceStatus
	}
	return &Decider{cfg: cfg, client: client, log: logger}
}

// Config returns the decider's run configuration.
func (d *Decider) Config() Config { return d.cfg }

// Balance queries and parses the current cycle balance of canister.
func (d *Decider) Balance(ctx context.Context, canister string) (*big.Int, error) {
	var (
		raw     string
		err     error
		extract func(string) (string, bool)
	)
	switch d.cfg.Source {
	case SourceActor:
		d.log.WithField("canister", canister).Info("query canister cycles with getActorBalance")
		raw, err = d.client.ActorBalance(ctx, canister)
		extract = cycles.ExtractActorBalance
	default:
		d.log.WithField("canister", canister).Info("query canister cycles with status")
		raw, err = d.client.Status(ctx, canister)
		extract = cycles.ExtractStatusBalance
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", canister, err)
	}
	digits, ok := extract(raw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", canister, cycles.ErrBalanceNotFound)
	}
	n, err := cycles.Parse(digits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", canister, err)
	}
	return n, nil
}

// Check reports the balance and whether a top-up would be issued, without
// depositing anything.
func (d *Decider) Check(ctx context.Context, canister string) (Decision, error) {
	dec := Decision{Canister: canister, Threshold: d.cfg.Threshold, Amount: d.cfg.Amount}
	balance, err := d.Balance(ctx, canister)
	if err != nil {
		return dec, err
	}
	dec.Balance = balance
	return dec, nil
}

// Process tops up canister from wallet when its balance is at or below the
// threshold.
func (d *Decider) Process(ctx context.Context, canister, wallet string) (Decision, error) {
	dec, err := d.Check(ctx, canister)
	if err != nil {
		return dec, err
	}
	fields := log.Fields{
		"canister":  canister,
		"balance":   dec.Balance.String(),
		"threshold": d.cfg.Threshold.String(),
	}
	if !cycles.AtOrBelow(dec.Balance, d.cfg.Threshold) {
		d.log.WithFields(fields).Info("balance above threshold, no top up needed")
		return dec, nil
	}

	fields["amount"] = d.cfg.Amount.String()
	d.log.WithFields(fields).Info("balance at or below threshold, topping up")
	d.log.WithField("canister", canister).Info("topup canister")
	out, err := d.client.DepositCycles(ctx, wallet, d.cfg.Amount, canister)
	if err != nil {
		return dec, fmt.Errorf("top up %s: %w", canister, err)
	}
	if d.cfg.DryRun {
		dec.DryRun = true
		d.log.WithField("canister", canister).Info("would top up (dry run)")
		return dec, nil
	}
	dec.ToppedUp = true
	dec.Output = out
	if s := strings.TrimSpace(out); s != "" {
		d.log.WithField("canister", canister).Info(s)
	}
	d.log.WithField("canister", canister).Info("top up done")
	return dec, nil
}

// WouldTopUp reports whether dec's balance is at or below its threshold.
func (dec Decision) WouldTopUp() bool {
	if dec.Balance == nil || dec.Threshold == nil {
		return false
	}
	return cycles.AtOrBelow(dec.Balance, dec.Threshold)
}
