// Package dfx builds and runs the dfx command lines used to inspect and fund
// canisters.
package dfx

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"cyclekit/cli/cyclectl/internal/execx"
)

const (
	// DefaultBinary is looked up on PATH.
	DefaultBinary = "dfx"
	// NetworkIC targets mainnet. An empty network omits --network entirely.
	NetworkIC = "ic"
)

// Client issues dfx commands for one network. Queries go through Runner,
// deposits go through Mutator so they can be dry-run.
type Client struct {
	Binary  string
	Network string
	Runner  execx.Runner
	Mutator execx.Runner
}

// New returns a client that uses r for both queries and deposits.
func New(binary, network string, r execx.Runner) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Client{Binary: binary, Network: strings.TrimSpace(network), Runner: r, Mutator: r}
}

func (c *Client) networkArgs() []string {
	if c.Network == "" {
		return nil
	}
	return []string{"--network", c.Network}
}

// StatusArgs: canister [--network N] status <canister>
func (c *Client) StatusArgs(canister string) []string {
	args := append([]string{"canister"}, c.networkArgs()...)
	return append(args, "status", canister)
}

// DepositArgs: canister [--network N] --wallet <wallet> deposit-cycles <amount> <canister>
func (c *Client) DepositArgs(wallet string, amount *big.Int, canister string) []string {
	args := append([]string{"canister"}, c.networkArgs()...)
	return append(args, "--wallet", wallet, "deposit-cycles", amount.String(), canister)
}

// WalletArgs: identity [--network N] get-wallet
func (c *Client) WalletArgs() []string {
	args := append([]string{"identity"}, c.networkArgs()...)
	return append(args, "get-wallet")
}

// ActorBalanceArgs: canister [--network N] call --query <canister> getActorBalance
func (c *Client) ActorBalanceArgs(canister string) []string {
	args := append([]string{"canister"}, c.networkArgs()...)
	return append(args, "call", "--query", canister, "getActorBalance")
}

// Status returns the raw status report of a canister.
func (c *Client) Status(ctx context.Context, canister string) (string, error) {
	return c.Runner.Run(ctx, c.Binary, c.StatusArgs(canister)...)
}

// ActorBalance returns the raw candid reply of the canister's getActorBalance query.
func (c *Client) ActorBalance(ctx context.Context, canister string) (string, error) {
	return c.Runner.Run(ctx, c.Binary, c.ActorBalanceArgs(canister)...)
}

// DepositCycles sends amount cycles from wallet to canister.
func (c *Client) DepositCycles(ctx context.Context, wallet string, amount *big.Int, canister string) (string, error) {
	m := c.Mutator
	if m == nil {
		m = c.Runner
	}
	return m.Run(ctx, c.Binary, c.DepositArgs(wallet, amount, canister)...)
}

// Wallet resolves the wallet id of the current identity.
func (c *Client) Wallet(ctx context.Context) (string, error) {
	out, err := c.Runner.Run(ctx, c.Binary, c.WalletArgs()...)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(strings.ReplaceAll(out, "\n", ""))
	if id == "" {
		return "", fmt.Errorf("%s identity get-wallet returned no wallet id", c.Binary)
	}
	return id, nil
}
