// Package update compares the CLI build with the backend it talks to.
package update

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/baselog-dev/baselog/internal/cli/client"
)

// HealthGetter reads the backend's health document.
type HealthGetter interface {
	Health(ctx context.Context) (*client.Health, error)
}

// Status is the outcome of a version check
type Status struct {
	CLIVersion    string
	ServerVersion string
	ServerStatus  string
	Mismatch      bool
}

// Check fetches the backend version and compares it with cliVersion.
func Check(ctx context.Context, api HealthGetter, cliVersion string) (*Status, error) {
	h, err := api.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	return &Status{
		CLIVersion:    cliVersion,
		ServerVersion: h.Version,
		ServerStatus:  h.Status,
		Mismatch:      versionsDiffer(cliVersion, h.Version),
	}, nil
}

// versionsDiffer is true when both sides are release builds with different
// versions. Development builds never count as a mismatch.
func versionsDiffer(a, b string) bool {
	a = strings.TrimPrefix(a, "v")
	b = strings.TrimPrefix(b, "v")

	if a == "dev" || b == "dev" || a == "" || b == "" {
		return false
	}

	return a != b
}

// PrintNotice writes a warning to out if s reports a mismatch
func PrintNotice(out io.Writer, s *Status) {
	if s == nil || !s.Mismatch {
		return
	}
	fmt.Fprintf(out, "Warning: CLI %s talks to backend %s; some commands may not behave as expected.\n", s.CLIVersion, s.ServerVersion)
}
