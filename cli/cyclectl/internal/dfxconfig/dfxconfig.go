// Package dfxconfig edits a project's dfx.json in place.
package dfxconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	DefaultFile     = "dfx.json"
	DefaultCanister = "ledger"
	// DefaultCandid is the private ledger interface used by test deployments.
	DefaultCandid = "backend/remote/icp/ledger.private.did"
)

// ConfigWriteError reports a failure to write the patched file.
type ConfigWriteError struct {
	Path string
	Err  error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *ConfigWriteError) Unwrap() error { return e.Err }

// SetCandid returns data with canisters.<canister>.candid set to candid.
// Key order is preserved and the result is compact JSON.
func SetCandid(data []byte, canister, candid string) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("expected a JSON object")
	}
	if !gjson.GetBytes(data, "canisters").IsObject() {
		return nil, fmt.Errorf("missing key %q", "canisters")
	}
	target := "canisters." + escapeKey(canister)
	if !gjson.GetBytes(data, target).IsObject() {
		return nil, fmt.Errorf("canisters: missing key %q", canister)
	}
	out, err := sjson.SetBytes(data, target+".candid", candid)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// escapeKey quotes path metacharacters so key is matched literally.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 0x80, r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PatchCandid rewrites the file at path so canister uses the candid file at
// candid. The file keeps its permissions.
func PatchCandid(path, canister, candid string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := SetCandid(data, canister, candid)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, st.Mode().Perm()); err != nil {
		return &ConfigWriteError{Path: path, Err: err}
	}
	return nil
}
