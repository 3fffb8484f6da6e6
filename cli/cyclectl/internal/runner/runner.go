package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cyclekit/cli/cyclectl/internal/execx"
)

// Mutating runs state-changing commands through Next unless Dry is set.
type Mutating struct {
	Next execx.Runner
	Dry  bool
	// Out receives dry-run lines; defaults to stderr.
	Out io.Writer
}

// New wraps next for mutating commands.
func New(next execx.Runner, dry bool) *Mutating {
	return &Mutating{Next: next, Dry: dry, Out: os.Stderr}
}

func (m *Mutating) Run(ctx context.Context, name string, args ...string) (string, error) {
	if m.Dry {
		out := m.Out
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintln(out, "+ "+name+" "+strings.Join(args, " "))
		return "", nil
	}
	return m.Next.Run(ctx, name, args...)
}
