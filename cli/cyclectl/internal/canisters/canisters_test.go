package canisters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `{
  "ledger": {"ic": "ryjl3-tyaaa-aaaaa-aaaba-cai"},
  "backend": {"ic": "rrkah-fqaaa-aaaaa-aaaaq-cai"},
  "assets": {"ic": "r7inp-6aaaa-aaaaa-aaabq-cai"}
}`

func TestLoadKeepsFileOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ledger", "backend", "assets"}, m.Names())
	assert.Equal(t, path, m.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejectsArray(t *testing.T) {
	_, err := Parse([]byte(`["ledger"]`))
	assert.Error(t, err)
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{``, `{"ledger":}`, `{"a":1} {"b":2}`} {
		_, err := Parse([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestParseRepeatedNameKeepsFirstPosition(t *testing.T) {
	m, err := Parse([]byte(`{"ledger":{},"backend":{},"ledger":{}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"ledger", "backend"}, m.Names())
}

func TestSelect(t *testing.T) {
	m, err := Parse([]byte(manifest))
	require.NoError(t, err)

	all, err := m.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ledger", "backend", "assets"}, all)

	some, err := m.Select([]string{"assets", "ledger"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ledger", "assets"}, some, "selection follows manifest order")

	_, err = m.Select([]string{"ledger", "ghost"})
	assert.EqualError(t, err, "unknown canister(s): ghost")
}
