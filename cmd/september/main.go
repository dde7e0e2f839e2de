// Command september serves Gemini capsules to web browsers as HTML.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/gemrest/september/cmd/september/commands"
	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}

	parser := kong.Parse(cli,
		kong.Name("september"),
		kong.Description("A simple and efficient Gemini-to-HTTP proxy."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("september %s (%s)", version.Version, version.ShortCommit())},
		kong.Bind(global),
	)

	if err := parser.Run(global, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.Log(err)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}
