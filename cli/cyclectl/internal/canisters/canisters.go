// Package canisters loads the canister_ids.json manifest that lists the
// canisters of a project.
package canisters

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultFile is the manifest dfx writes when deploying to mainnet.
const DefaultFile = "canister_ids.json"

// Manifest keeps canister names in file order. Per-canister values are not
// interpreted.
type Manifest struct {
	Path  string
	names []string
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading canister ids %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing canister ids %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse reads a manifest from JSON bytes. A repeated name keeps its first
// position.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("expected a JSON object")
	}
	m := &Manifest{}
	seen := map[string]bool{}
	root.ForEach(func(key, _ gjson.Result) bool {
		if name := key.String(); !seen[name] {
			seen[name] = true
			m.names = append(m.names, name)
		}
		return true
	})
	return m, nil
}

// Names returns canister names in file order.
func (m *Manifest) Names() []string {
	return append([]string(nil), m.names...)
}

// Select returns the requested canisters in manifest order. An empty request
// selects everything. Unknown names are an error.
func (m *Manifest) Select(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return m.Names(), nil
	}
	want := map[string]bool{}
	for _, r := range requested {
		want[strings.TrimSpace(r)] = true
	}
	out := make([]string, 0, len(want))
	for _, n := range m.names {
		if want[n] {
			out = append(out, n)
			delete(want, n)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for _, r := range requested {
			r = strings.TrimSpace(r)
			if want[r] {
				unknown = append(unknown, r)
				delete(want, r)
			}
		}
		return nil, fmt.Errorf("unknown canister(s): %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
