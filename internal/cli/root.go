// Package cli provides the command-line interface for huefind.
package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huefind/internal/config"
	"github.com/jmylchreest/huefind/internal/logging"
	"github.com/jmylchreest/huefind/internal/version"
)

// app carries state shared by all commands of one command tree.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	cfg    config.Config
	logger hclog.Logger
}

// NewRootCmd builds the huefind command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "huefind",
		Short: "Find images by colour",
		Long: `huefind indexes a collection of images by their dominant colours and finds
the images that contain a colour close to one you choose.

Build the index once, then search it as often as you like:

  huefind index build --dataset image_data
  huefind search --hex "#e03c31"`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/huefind/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newIndexCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newExtractCmd(a))

	return rootCmd
}

// setup loads the configuration and creates the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Options{
		Verbose: a.verbose,
		Quiet:   a.quiet,
		Output:  cmd.ErrOrStderr(),
	})
	a.logger.Debug("configuration loaded", "dataset", cfg.DatasetDir, "index", cfg.IndexPath, "store", cfg.Store)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
