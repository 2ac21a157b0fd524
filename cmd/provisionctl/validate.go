package main

import (
	"fmt"
	"io"

	"github.com/reglet-dev/provisioning-sdk/application/schema"
	"github.com/reglet-dev/provisioning-sdk/application/validation"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/policy"
)

func (a *app) validateCommand() *Command {
	cmd := &Command{
		Name:        "validate",
		Description: "Validate a provisioning request",
		Usage:       "provisionctl validate [flags] <request-file|->",
		Examples: []string{
			"provisionctl validate request.json",
			"provisionctl validate -policy -config settings.yaml request.yaml",
			"cat request.json | provisionctl validate -",
		},
	}
	cmd.Run = func(args []string) error {
		var (
			in         inputFlags
			skipSchema bool
			usePolicy  bool
			appName    string
		)
		fs := cmd.NewFlagSet(a.stderr)
		in.register(fs)
		fs.BoolVar(&skipSchema, "no-schema", false, "Skip JSON Schema validation of the payload")
		fs.BoolVar(&usePolicy, "policy", false, "Also check the request against the configured policy")
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

		if !skipSchema {
			result, err := a.validatePayload(req)
			if err != nil {
				return err
			}
			if !result.Valid {
				printInvalid(a.stdout, path, result.Errors)
				return errInvalid
			}
		}

		decoded, err := env.decode(req)
		if err != nil {
			detail := errors.ToErrorDetail(err)
			printInvalid(a.stdout, path, []entities.ValidationError{{Field: detail.Path, Message: detail.Message}})
			return errInvalid
		}

		if usePolicy {
			app, err := asApplication(decoded, appName)
			if err != nil {
				return err
			}
			opts := append(env.settings.PolicyOptions(),
				policy.WithDenialHandler(&policy.SlogDenialHandler{Logger: env.logger}))
			result := policy.NewPolicy(opts...).CheckApplication(app)
			if !result.Valid {
				printInvalid(a.stdout, path, result.Errors)
				return errInvalid
			}
		}

		if decoded.IsApplication() {
			fmt.Fprintf(a.stdout, "%s: valid application %s with %d account(s)\n",
				path, decoded.Application.Name(), decoded.Application.Size())
		} else {
			fmt.Fprintf(a.stdout, "%s: valid %s request for account %s\n",
				path, decoded.Account.Action(), decoded.Account.ID())
		}
		return nil
	}
	return cmd
}

func (a *app) validatePayload(req *request) (*entities.ValidationResult, error) {
	data, err := req.json()
	if err != nil {
		return nil, err
	}
	registry, err := schema.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return validation.NewPayloadValidator(registry).Validate(data)
}

func printInvalid(w io.Writer, name string, violations []entities.ValidationError) {
	fmt.Fprintf(w, "%s: invalid\n", name)
	for _, v := range violations {
		if v.Field == "" {
			fmt.Fprintf(w, "  %s\n", v.Message)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", v.Field, v.Message)
	}
}
