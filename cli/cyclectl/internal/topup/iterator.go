package topup

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Iterator drives a Decider over an ordered list of canisters.
type Iterator struct {
	decider *Decider
	client  Client
	log     log.FieldLogger
}

func NewIterator(d *Decider, client Client, logger log.FieldLogger) *Iterator {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Iterator{decider: d, client: client, log: logger}
}

func (it *Iterator) runLogger() log.FieldLogger {
	return it.log.WithField("run_id", uuid.NewString())
}

// Run resolves the wallet once, then processes canisters strictly in order.
// Per-canister failures are logged and skipped; the returned error is non-nil
// only when the wallet could not be resolved or ctx was cancelled.
func (it *Iterator) Run(ctx context.Context, canisters []string) error {
	logger := it.runLogger()
	cfg := it.decider.Config()
	logger.Info("------ top up canisters ------")
	logger.WithField("threshold", cfg.Threshold.String()).Info("top up threshold")
	logger.WithField("canisters", strings.Join(canisters, ",")).Info("canisters to check")

	logger.Info("get current identity wallet id")
	wallet, err := it.client.Wallet(ctx)
	if err != nil {
		return fmt.Errorf("resolve wallet: %w", err)
	}
	logger.WithField("wallet", wallet).Info("wallet id")

	d := it.decider.withLogger(logger)
	for _, name := range canisters {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := d.Process(ctx, name, wallet); err != nil {
			logger.WithField("canister", name).WithError(err).Error("canister skipped")
		}
	}
	return nil
}

// Report checks every canister without resolving a wallet or depositing.
func (it *Iterator) Report(ctx context.Context, canisters []string) error {
	logger := it.runLogger()
	d := it.decider.withLogger(logger)
	for _, name := range canisters {
		if err := ctx.Err(); err != nil {
			return err
		}
		dec, err := d.Check(ctx, name)
		if err != nil {
			logger.WithField("canister", name).WithError(err).Error("canister skipped")
			continue
		}
		logger.WithFields(log.Fields{
			"canister":     name,
			"balance":      dec.Balance.String(),
			"threshold":    dec.Threshold.String(),
			"needs_top_up": dec.WouldTopUp(),
		}).Info("balance")
	}
	return nil
}

func (d *Decider) withLogger(logger log.FieldLogger) *Decider {
	c := *d
	c.log = logger
	return &c
}
