package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gemrest/september/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct {
	stdout io.Writer `kong:"-"`
}

func (v *VersionCmd) Run() error {
	out := v.stdout
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintf(out, "september %s\ncommit: %s\nbuilt: %s\nsource: %s\n",
		version.Version, version.ShortCommit(), version.BuildTime, version.SourceURL())
	return err
}
