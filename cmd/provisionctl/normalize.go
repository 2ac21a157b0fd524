package main

import (
	"fmt"

	"github.com/reglet-dev/provisioning-sdk/application/schema"
)

func (a *app) normalizeCommand() *Command {
	cmd := &Command{
		Name:        "normalize",
		Description: "Decode a request and print its canonical JSON form",
		Usage:       "provisionctl normalize [flags] <request-file|->",
		Examples: []string{
			"provisionctl normalize request.yaml",
			"provisionctl normalize -indent '  ' request.json",
		},
	}
	cmd.Run = func(args []string) error {
		var (
			in     inputFlags
			indent string
		)
		fs := cmd.NewFlagSet(a.stderr)
		in.register(fs)
		fs.StringVar(&indent, "indent", "", "Indent output with this string (overrides the settings file)")
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

		codec := env.codec
		if indent != "" {
			codec = schema.NewCodec(append(env.settings.CodecOptions(env.logger), schema.WithIndent("", indent))...)
		}
		var out []byte
		if decoded.IsApplication() {
			out, err = codec.MarshalApplication(decoded.Application)
		} else {
			out, err = codec.MarshalAccount(decoded.Account)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s\n", out)
		return nil
	}
	return cmd
}
