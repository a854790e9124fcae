// Package logging configures the structured logger shared by huefind commands.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options controls the logger level and destination.
type Options struct {
	Verbose bool
	Quiet   bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a logger named "huefind". Verbose enables debug output, quiet
// limits output to errors; quiet wins if both are set.
func New(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level := hclog.Info
	switch {
	case opts.Quiet:
		level = hclog.Error
	case opts.Verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "huefind",
		Output: output,
		Level:  level,
	})
}
