// Package cycles extracts canister cycle balances from dfx text output.
package cycles

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var (
	// ErrBalanceNotFound means no balance could be located in a report.
	ErrBalanceNotFound = errors.New("no balance found")
	// ErrInvalidBalance means the extracted digits are not a non-negative integer.
	ErrInvalidBalance = errors.New("invalid cycle balance")

	balanceLine = regexp.MustCompile(`(?i)balance`)
	digitsOnly  = regexp.MustCompile(`^[0-9]+$`)
)

// ExtractStatusBalance returns the digit string of the first line matching
// "balance" (any case) in a `dfx canister status` report. ok is false when
// there is no such line or it carries no colon.
func ExtractStatusBalance(report string) (digits string, ok bool) {
	var line string
	found := false
	for _, l := range strings.Split(report, "\n") {
		if balanceLine.MatchString(l) {
			line = l
			found = true
			break
		}
	}
	if !found {
		return "", false
	}
	_, value, hasColon := strings.Cut(line, ":")
	if !hasColon {
		return "", false
	}
	value = strings.TrimSpace(strings.Replace(value, "Cycles", "", 1))
	return strings.ReplaceAll(value, "_", ""), true
}

// ExtractActorBalance cleans the candid reply of a getActorBalance query,
// e.g. "(3_000_000 : nat)". The leading character is dropped and everything
// from the first colon on is ignored.
func ExtractActorBalance(reply string) (digits string, ok bool) {
	if len(reply) < 2 {
		return "", false
	}
	head, _, _ := strings.Cut(reply[1:], ":")
	head = strings.ReplaceAll(strings.TrimSpace(head), "_", "")
	if head == "" {
		return "", false
	}
	return head, true
}

// Parse converts an extracted digit string into a cycle count.
func Parse(digits string) (*big.Int, error) {
	if !digitsOnly.MatchString(digits) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBalance, digits)
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBalance, digits)
	}
	return n, nil
}

// MustParse is Parse for constants; it panics on bad input.
func MustParse(digits string) *big.Int {
	n, err := Parse(digits)
	if err != nil {
		panic(err)
	}
	return n
}

// AtOrBelow reports whether balance <= threshold.
func AtOrBelow(balance, threshold *big.Int) bool {
	return balance.Cmp(threshold) <= 0
}
