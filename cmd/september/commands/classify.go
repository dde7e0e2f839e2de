package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gemrest/september/internal/route"
)

// ClassifyCmd implements the 'classify' command.
type ClassifyCmd struct {
	Path     string `arg:"" help:"Request path, optionally with a ?query"`
	Fallback bool   `help:"Add the trailing slash used for the empty-body retry"`

	stdout io.Writer `kong:"-"`
}

func (c *ClassifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	target, err := route.Classify(c.Path, c.Fallback, cfg.Root)
	if err != nil {
		return err
	}

	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintf(out, "%s\t%s\n", target.Mode, target.URL)
	return err
}
