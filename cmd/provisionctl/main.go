// Command provisionctl validates, normalizes, inspects and dry-runs account
// provisioning requests.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Build information, set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	registry := a.registry(VersionInfo{Version: version, Commit: commit, Date: date})

	if err := registry.Execute(args); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) registry(v VersionInfo) *CommandRegistry {
	r := NewCommandRegistry(v, a.stdout, a.stderr)
	r.Register(a.validateCommand())
	r.Register(a.normalizeCommand())
	r.Register(a.schemaCommand())
	r.Register(a.inspectCommand())
	r.Register(a.applyCommand())
	r.Register(&Command{
		Name:        "version",
		Description: "Show version information",
		Usage:       "provisionctl version",
		Run: func(args []string) error {
			fmt.Fprintf(a.stdout, "provisionctl %s (commit %s, built %s)\n", v.Version, v.Commit, v.Date)
			return nil
		},
	})
	return r
}
