package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/huefind/internal/colour"
	"github.com/jmylchreest/huefind/internal/index"
	"github.com/jmylchreest/huefind/internal/metrics"
)

// errNoIndex is reported when a command needs an index that has not been built.
var errNoIndex = fmt.Errorf("%w; run 'huefind index build' first", index.ErrIndexUnavailable)

// indexFlags are the flags locating the index, shared by several commands.
type indexFlags struct {
	path  string
	store string
}

func (f *indexFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.path, "index", "", "index location (default from config: image_data.json)")
	flags.StringVar(&f.store, "store", "", "index store (file, sqlite)")
}

// open returns the store selected by flags, falling back to the config.
func (f *indexFlags) open(cmd *cobra.Command, a *app) (index.Store, error) {
	path, kind := a.cfg.IndexPath, a.cfg.Store
	if cmd.Flags().Changed("index") {
		path = f.path
	}
	if cmd.Flags().Changed("store") {
		kind = index.StoreKind(f.store)
	}
	return index.OpenStore(kind, path)
}

// load reads the index, translating an absent index into errNoIndex.
func (f *indexFlags) load(cmd *cobra.Command, a *app) (*index.Index, error) {
	store, err := f.open(cmd, a)
	if err != nil {
		return nil, err
	}
	idx, err := store.Load(cmd.Context())
	if errors.Is(err, index.ErrIndexUnavailable) {
		return nil, errNoIndex
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	a.logger.Debug("index loaded", "location", store.Location(), "images", idx.Len())
	return idx, nil
}

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and inspect the palette index",
	}
	cmd.AddCommand(newIndexBuildCmd(a))
	cmd.AddCommand(newIndexShowCmd(a))
	return cmd
}

type indexBuildOptions struct {
	indexFlags
	dataset     string
	workers     int
	seed        int64
	seedMode    string
	metricsFile string
}

func newIndexBuildCmd(a *app) *cobra.Command {
	opts := &indexBuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Extract palettes from every image in the dataset",
		Long: `Scan the dataset directory for .png and .jpg files, extract a five colour
palette from each, and replace the stored index.

Images that cannot be decoded are skipped and reported. The previous index is
kept if the new one cannot be written.

Examples:
  # Index ./image_data into ./image_data.json
  huefind index build

  # Index another directory into an SQLite database
  huefind index build --dataset ~/Pictures --index pictures.db --store sqlite

  # Compressed index, seeded from image content
  huefind index build --index image_data.json.xz --seed-mode content`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndexBuild(cmd, a, opts)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.dataset, "dataset", "d", "", "directory of images to index (default from config: image_data)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "images processed concurrently (0 = one per CPU)")
	cmd.Flags().Int64Var(&opts.seed, "seed", colour.DefaultSeed, "clustering seed in fixed seed mode")
	cmd.Flags().StringVar(&opts.seedMode, "seed-mode", "", "seed mode (fixed, content)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write build metrics in Prometheus text format to this file")

	return cmd
}

func runIndexBuild(cmd *cobra.Command, a *app, opts *indexBuildOptions) error {
	cfg := a.cfg
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.DatasetDir = opts.dataset
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("seed-mode") {
		cfg.SeedMode = opts.seedMode
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = opts.metricsFile
	}

	seedMode, err := colour.ParseSeedMode(cfg.SeedMode)
	if err != nil {
		return err
	}
	extractorOpts := colour.DefaultExtractorOptions()
	extractorOpts.Seed = cfg.Seed
	extractorOpts.SeedMode = seedMode
	extractor, err := colour.NewExtractor(extractorOpts)
	if err != nil {
		return err
	}

	store, err := opts.open(cmd, a)
	if err != nil {
		return err
	}

	idx, summary, err := index.Build(cmd.Context(), cfg.DatasetDir, index.BuildOptions{
		Extractor: extractor,
		Workers:   cfg.Workers,
		Logger:    a.logger.Named("build"),
	})
	if err != nil {
		return err
	}
	if summary.Indexed == 0 {
		return fmt.Errorf("no images could be indexed (%d of %d failed); %s left unchanged",
			summary.Failed(), summary.Scanned, store.Location())
	}

	var buildMetrics *metrics.Build
	if cfg.MetricsFile != "" {
		buildMetrics = metrics.NewBuild()
		buildMetrics.Observe(summary)
	}

	if err := store.Persist(cmd.Context(), idx); err != nil {
		return err
	}

	if buildMetrics != nil {
		buildMetrics.MarkPersisted()
		if err := buildMetrics.WriteTextfile(cfg.MetricsFile); err != nil {
			a.logger.Warn("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	if !a.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d of %d images into %s\n", summary.Indexed, summary.Scanned, store.Location())
		for _, failure := range summary.Failures {
			fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s: %v\n", failure.ID, failure.Err)
		}
	}
	return nil
}

type indexShowOptions struct {
	indexFlags
	preview bool
}

func newIndexShowCmd(a *app) *cobra.Command {
	opts := &indexShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List every indexed image with its palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := opts.load(cmd, a)
			if err != nil {
				return err
			}

			preview := colour.IsTerminal(cmd.OutOrStdout())
			if cmd.Flags().Changed("preview") {
				preview = opts.preview
			}

			table := NewTable([]string{"IMAGE", "PALETTE"})
			for id, palette := range idx.All() {
				table.AddRow([]string{id, colour.FormatPalette(palette, preview)})
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on for terminals)")

	return cmd
}
