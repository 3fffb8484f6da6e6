// Package testutil provides a fake dfx binary and a scratch project directory
// for end-to-end CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DFXFixture is a temporary project with a stub dfx script. Every invocation
// of the stub is appended, one line of arguments per call, to CallLog.
type DFXFixture struct {
	t       *testing.T
	root    string
	binary  string
	callLog string
}

// Canister describes how the stub answers for one canister.
type Canister struct {
	Name string
	// Status is printed for `canister ... status <name>`; empty makes the
	// command fail with "Cannot find canister id".
	Status string
}

// NewDFXFixture writes a stub dfx that reports wallet and per-canister status.
// An empty wallet makes `identity get-wallet` exit 255.
func NewDFXFixture(t *testing.T, wallet string, canisters ...Canister) *DFXFixture {
	t.Helper()
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatalf("mkdir stub bin: %v", err)
	}
	f := &DFXFixture{
		t:       t,
		root:    root,
		binary:  filepath.Join(bin, "dfx"),
		callLog: filepath.Join(root, "calls.log"),
	}
	if err := os.WriteFile(f.binary, []byte(f.script(wallet, canisters)), 0o755); err != nil {
		t.Fatalf("write dfx stub: %v", err)
	}
	return f
}

func (f *DFXFixture) script(wallet string, canisters []Canister) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n# dfx stub for cyclectl tests\n")
	b.WriteString("echo \"$*\" >> " + shQuote(f.callLog) + "\n")
	b.WriteString("last=\"\"; for a in \"$@\"; do last=\"$a\"; done\n")
	b.WriteString("case \"$*\" in\n")
	if wallet == "" {
		b.WriteString("  *get-wallet*) echo 'Error: no wallet configured' 1>&2; exit 255 ;;\n")
	} else {
		b.WriteString("  *get-wallet*) echo " + shQuote(wallet) + " ;;\n")
	}
	b.WriteString("  *deposit-cycles*) echo \"Depositing cycles to $last\" 1>&2 ;;\n")
	b.WriteString("  *status*)\n    case \"$last\" in\n")
	for _, c := range canisters {
		if c.Status == "" {
			continue
		}
		b.WriteString("      " + shQuote(c.Name) + ") printf '%s\\n' " + shQuote(c.Status) + " ;;\n")
	}
	b.WriteString("      *) echo \"Error: Cannot find canister id for $last\" 1>&2; exit 255 ;;\n    esac ;;\n")
	b.WriteString("  *) echo \"unexpected dfx call: $*\" 1>&2; exit 2 ;;\nesac\n")
	return b.String()
}

// Binary is the path of the stub dfx.
func (f *DFXFixture) Binary() string { return f.binary }

// Root is the scratch project directory.
func (f *DFXFixture) Root() string { return f.root }

// WriteFile writes relative to the project root and returns the absolute path.
func (f *DFXFixture) WriteFile(rel string, content string) string {
	path := filepath.Join(f.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// Calls returns the argument lines the stub received, in order.
func (f *DFXFixture) Calls() []string {
	data, err := os.ReadFile(f.callLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		f.t.Fatalf("read call log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

// shQuote wraps s in single quotes and escapes any embedded single quotes for POSIX shells.
func shQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
