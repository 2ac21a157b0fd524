package main

import (
	"fmt"
	"strconv"
	"strings"
)

func (a *app) inspectCommand() *Command {
	cmd := &Command{
		Name:        "inspect",
		Description: "Summarize the accounts and risk of a request",
		Usage:       "provisionctl inspect [flags] <request-file|->",
		Examples: []string{
			"provisionctl inspect request.json",
			"provisionctl inspect -config settings.yaml request.yaml",
		},
	}
	cmd.Run = func(args []string) error {
		var (
			in      inputFlags
			appName string
		)
		fs := cmd.NewFlagSet(a.stderr)
		in.register(fs)
		fs.StringVar(&appName, "application", "default", "Application name for single account requests")
		if err := fs.Parse(args); err != nil {
			return err
		}
		path, err := singleArg(fs, "request file")
		if err != nil {
			return err
		}

		env, err := a.environment(&in)
		if err != nil {
			return err
		}
		req, err := a.readRequest(env, path, &in)
		if err != nil {
			return err
		}
		decoded, err := env.decode(req)
		if err != nil {
			return err
		}
		app, err := asApplication(decoded, appName)
		if err != nil {
			return err
		}

		assessor := env.settings.RiskAssessor()
		fmt.Fprintf(a.stdout, "Application: %s\n", app.Name())
		fmt.Fprintf(a.stdout, "Accounts:    %d\n\n", app.Size())

		table := NewTableWriter("#", "ACCOUNT", "ACTION", "ATTRIBUTES", "NAMESPACES", "RISK")
		for i, account := range app.Accounts() {
			names := make([]string, 0, len(account.Namespace()))
			for _, ns := range account.Namespace() {
				names = append(names, ns.Name())
			}
			namespaces := strings.Join(names, ",")
			if namespaces == "" {
				namespaces = "-"
			}
			table.AddRow(
				strconv.Itoa(i),
				account.ID(),
				account.Action().String(),
				strconv.Itoa(account.Size()),
				namespaces,
				assessor.AssessAccount(account).String(),
			)
		}
		table.Print(a.stdout)

		fmt.Fprintf(a.stdout, "\nRisk: %s\n", assessor.AssessApplication(app))
		for _, r := range assessor.DescribeRisks(app) {
			fmt.Fprintf(a.stdout, "- %s\n", r)
		}
		return nil
	}
	return cmd
}
