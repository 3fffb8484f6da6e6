package cycles

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusReport = `Canister status call result for ledger.
Status: Running
Controllers: 2vxsx-fae rwlgt-iiaaa-aaaaa-aaaaa-cai
Memory allocation: 0
Compute allocation: 0
Freezing threshold: 2_592_000
Memory Size: Nat(2471701)
Balance: 1_234_567 Cycles
Module hash: 0xb8fa
`

func TestExtractStatusBalance(t *testing.T) {
	digits, ok := ExtractStatusBalance(statusReport)
	require.True(t, ok)
	assert.Equal(t, "1234567", digits)
}

func TestExtractStatusBalanceCases(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   string
		ok     bool
	}{
		{name: "single line", report: "Balance: 1_234_567 Cycles", want: "1234567", ok: true},
		{name: "lower case label", report: "cycle balance: 42 Cycles\n", want: "42", ok: true},
		{name: "no underscores", report: "Balance: 5000000000000 Cycles", want: "5000000000000", ok: true},
		{name: "first match wins", report: "Balance: 1_000 Cycles\nBalance: 2_000 Cycles", want: "1000", ok: true},
		{name: "no balance line", report: "Status: Running\nMemory Size: Nat(1)\n", ok: false},
		{name: "empty report", report: "", ok: false},
		{name: "no colon", report: "Balance 1_000 Cycles", ok: false},
		{name: "crlf", report: "Status: Running\r\nBalance: 7_000 Cycles\r\n", want: "7000", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractStatusBalance(tt.report)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractStatusBalanceExceedsInt64(t *testing.T) {
	digits, ok := ExtractStatusBalance("Balance: 99_999_999_999_999_999_999_999 Cycles")
	require.True(t, ok)
	n, err := Parse(digits)
	require.NoError(t, err)
	assert.Equal(t, "99999999999999999999999", n.String())
	assert.False(t, n.IsInt64())
}

func TestExtractActorBalance(t *testing.T) {
	digits, ok := ExtractActorBalance("(3_000_000_000_000 : nat)\n")
	require.True(t, ok)
	assert.Equal(t, "3000000000000", digits)

	_, ok = ExtractActorBalance("(")
	assert.False(t, ok)
	_, ok = ExtractActorBalance("(:nat)")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	n, err := Parse("4000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(big.NewInt(4_000_000_000_000)))

	for _, bad := range []string{"", "-5", "12a", "1.5", " 1"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidBalance, bad)
	}
}

func TestAtOrBelow(t *testing.T) {
	threshold := MustParse("4000000000000")
	assert.True(t, AtOrBelow(MustParse("4000000000000"), threshold))
	assert.True(t, AtOrBelow(MustParse("3000000000000"), threshold))
	assert.False(t, AtOrBelow(MustParse("5000000000000"), threshold))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
}
