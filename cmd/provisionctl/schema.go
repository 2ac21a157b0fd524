package main

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/provisioning-sdk/application/schema"
)

func (a *app) schemaCommand() *Command {
	cmd := &Command{
		Name:        "schema",
		Description: "Print the JSON Schema of a request shape",
		Usage:       "provisionctl schema [application|account]",
		Examples: []string{
			"provisionctl schema",
			"provisionctl schema account",
		},
	}
	cmd.Run = func(args []string) error {
		fs := cmd.NewFlagSet(a.stderr)
		if err := fs.Parse(args); err != nil {
			return err
		}
		kind := "application"
		switch fs.NArg() {
		case 0:
		case 1:
			kind = fs.Arg(0)
		default:
			fs.Usage()
			return fmt.Errorf("expected at most one request kind, got %d", fs.NArg())
		}

		registry, err := schema.DefaultRegistry()
		if err != nil {
			return err
		}
		s, ok := registry.GetSchema(kind)
		if !ok {
			return fmt.Errorf("unknown request kind %q (available: %s)", kind, strings.Join(registry.List(), ", "))
		}
		fmt.Fprintln(a.stdout, s)
		return nil
	}
	return cmd
}
