package main

import (
	"github.com/alecthomas/kong"

	"github.com/inletra/docsite/cmd/docsite/commands"
	"github.com/inletra/docsite/internal/errors"
	"github.com/inletra/docsite/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docsite"),
		kong.Description("Validate, inspect and emit a course site configuration document."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(&commands.Global{}, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
