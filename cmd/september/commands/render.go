package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/gateway"
	"github.com/gemrest/september/internal/gemini"
	"github.com/gemrest/september/internal/route"
)

// RenderCmd implements the 'render' command: a local gemtext file becomes a
// complete HTML page styled by the configured appearance.
type RenderCmd struct {
	File   string `arg:"" help:"Gemtext file to render, or - for standard input"`
	Path   string `short:"p" default:"/" help:"Request path the document is served at; links resolve against its capsule URL"`
	Output string `short:"o" help:"Write HTML to this file instead of standard output" type:"path"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	src, err := r.read()
	if err != nil {
		return err
	}

	target, err := route.Classify(r.Path, false, cfg.Root)
	if err != nil {
		return err
	}
	text, err := gemini.DecodeText(src, "utf-8")
	if err != nil {
		return err
	}

	out := r.stdout
	if out == nil {
		out = os.Stdout
	}
	if r.Output != "" {
		f, err := os.Create(r.Output) // #nosec G304 -- path comes from the operator
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var page bytes.Buffer
	if err := gateway.New(cfg, nil).RenderDocument(&page, text, target, r.Path); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to render document").
			WithContext("file", r.File).
			Build()
	}
	_, err = out.Write(page.Bytes())
	return err
}

func (r *RenderCmd) read() ([]byte, error) {
	if r.File == "-" {
		in := r.stdin
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(r.File) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to read gemtext file").
			WithContext("file", r.File).
			Build()
	}
	return data, nil
}
