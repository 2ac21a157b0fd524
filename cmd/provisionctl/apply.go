package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/reglet-dev/provisioning-sdk/application/config"
	"github.com/reglet-dev/provisioning-sdk/application/dispatch"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/policy"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
	"github.com/reglet-dev/provisioning-sdk/infrastructure/approvalstore"
	"github.com/reglet-dev/provisioning-sdk/infrastructure/prompter"
)

// errNotApproved is returned when the operator declines a risky request.
var errNotApproved = errors.New("request not approved")

func (a *app) applyCommand() *Command {
	cmd := &Command{
		Name:        "apply",
		Description: "Dry-run a request through policy, risk confirmation and dispatch",
		Usage:       "provisionctl apply [flags] <request-file|->",
		Examples: []string{
			"provisionctl apply request.json",
			"provisionctl apply -yes -config settings.yaml request.yaml",
			"provisionctl apply -approvals ./approvals.yaml request.json",
		},
	}
	cmd.Run = func(args []string) error {
		var (
			in        inputFlags
			appName   string
			yes       bool
			approvals string
		)
		fs := cmd.NewFlagSet(a.stderr)
		in.register(fs)
		fs.StringVar(&appName, "application", "default", "Application name for single account requests")
		fs.BoolVar(&yes, "yes", false, "Approve risky requests without asking")
		fs.StringVar(&approvals, "approvals", "", "Path to the standing approvals file (default ~/.provisionctl/approvals.yaml)")
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

		pol := policy.NewPolicy(append(env.settings.PolicyOptions(),
			policy.WithDenialHandler(&policy.SlogDenialHandler{Logger: env.logger}))...)
		if result := pol.CheckApplication(app); !result.Valid {
			printInvalid(a.stdout, path, result.Errors)
			return errInvalid
		}

		if !yes {
			store := approvalstore.NewFileStore(approvalstore.WithPath(approvals))
			confirmer := prompter.NewCliPrompter(a.stdin, a.stderr)
			if err := confirmRisk(env.settings.RiskAssessor(), confirmer, store, app); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if timeout := config.GetDurationDefault(env.settings.Connector, "timeout", 0); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		dispatcher := dispatch.New(&dispatch.DryRunProvisioner{Logger: env.logger},
			dispatch.WithLogger(env.logger),
			dispatch.WithContinueOnError(env.settings.Dispatch.ContinueOnError))

		report, err := dispatcher.DispatchApplication(ctx, app)
		if report != nil {
			a.printReport(report)
		}
		if err != nil {
			return err
		}
		return report.Err()
	}
	return cmd
}

type nonInteractiveFormatter interface {
	FormatNonInteractiveError(application string, level entities.Risk, risks []string) error
}

// confirmRisk asks for confirmation when app carries more than low risk and no
// standing approval covers it. Answering "always" records a standing approval.
func confirmRisk(assessor *entities.RiskAssessor, confirmer ports.Confirmer, store ports.ApprovalStore, app *entities.ApplicationEntity) error {
	level := assessor.AssessApplication(app)
	if level == entities.RiskLow {
		return nil
	}
	approved, err := store.Load()
	if err != nil {
		return err
	}
	if approved.Approves(app.Name()) {
		return nil
	}

	risks := assessor.DescribeRisks(app)
	if !confirmer.IsInteractive() {
		if f, ok := confirmer.(nonInteractiveFormatter); ok {
			return f.FormatNonInteractiveError(app.Name(), level, risks)
		}
		return fmt.Errorf("request for %s carries %s risk and needs confirmation", app.Name(), level)
	}
	ok, always, err := confirmer.ConfirmRisks(app.Name(), level, risks)
	if err != nil {
		return fmt.Errorf("confirm request: %w", err)
	}
	if !ok {
		return errNotApproved
	}
	if always {
		approved.Add(app.Name())
		if err := store.Save(approved); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printReport(report *dispatch.Report) {
	table := NewTableWriter("#", "ACCOUNT", "ACTION", "STATUS", "DURATION")
	for _, o := range report.Outcomes {
		table.AddRow(strconv.Itoa(o.Index), o.Account, o.Action.String(), o.Status.String(), o.Duration.String())
	}
	table.Print(a.stdout)
	fmt.Fprintf(a.stdout, "\nRequest %s for %s: %d applied, %d failed, %d skipped\n",
		report.RequestID, report.Application,
		report.Count(dispatch.StatusApplied),
		report.Count(dispatch.StatusFailed),
		report.Count(dispatch.StatusSkipped))
}
