package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/huefind/internal/colour"
	"github.com/jmylchreest/huefind/internal/export"
	"github.com/jmylchreest/huefind/internal/match"
)

type searchOptions struct {
	indexFlags
	hex       string
	rgb       string
	threshold float64
	copy      bool
	output    string
	dataset   string
	preview   bool
}

func newSearchCmd(a *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List images containing a colour close to the query",
		Long: `List the indexed images with at least one palette colour within the
threshold distance of the query colour, in index order.

The distance is Euclidean in RGB space, so 0 only matches the exact colour and
about 442 matches everything.

Examples:
  # Images containing something close to tomato red
  huefind search --hex "#ff6347"

  # A tighter match on a raw RGB value
  huefind search --rgb 32,64,128 --threshold 25

  # Copy the matches into ./matched_images
  huefind search --hex 2e8b57 --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, a, opts)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.hex, "hex", "", "query colour as a hex code (#rrggbb)")
	cmd.Flags().StringVar(&opts.rgb, "rgb", "", "query colour as r,g,b")
	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", match.DefaultThreshold, "maximum colour distance for a match")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy matching images into the output directory")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory for copies, implies --copy (default from config: matched_images)")
	cmd.Flags().StringVarP(&opts.dataset, "dataset", "d", "", "directory the index was built from (default from config: image_data)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show the nearest palette colour of each match (default: on for terminals)")
	cmd.MarkFlagsMutuallyExclusive("hex", "rgb")
	cmd.MarkFlagsOneRequired("hex", "rgb")

	return cmd
}

func parseQuery(opts *searchOptions) (colour.Point, error) {
	if opts.hex != "" {
		c, err := colour.ParseHex(opts.hex)
		if err != nil {
			return colour.Point{}, err
		}
		return c.Point(), nil
	}
	return colour.ParseRGB(opts.rgb)
}

func runSearch(cmd *cobra.Command, a *app, opts *searchOptions) error {
	cfg := a.cfg
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = opts.threshold
	}
	if flags.Changed("dataset") {
		cfg.DatasetDir = opts.dataset
	}
	if flags.Changed("output") {
		cfg.OutputDir = opts.output
		opts.copy = true
	}

	query, err := parseQuery(opts)
	if err != nil {
		return err
	}
	if err := match.ValidateThreshold(cfg.Threshold); err != nil {
		return err
	}

	idx, err := opts.load(cmd, a)
	if err != nil {
		return err
	}

	matches, err := match.Match(idx, query, cfg.Threshold)
	if err != nil {
		return err
	}
	a.logger.Debug("search complete", "query", query, "threshold", cfg.Threshold, "matches", len(matches))

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}

	preview := colour.IsTerminal(out)
	if flags.Changed("preview") {
		preview = opts.preview
	}
	for _, id := range matches {
		if preview {
			palette, _ := idx.Get(id)
			nearest, _ := palette.Nearest(query)
			fmt.Fprintf(out, "%s %s\n", colour.Swatch(nearest, 2), id)
			continue
		}
		fmt.Fprintln(out, id)
	}

	if !opts.copy {
		return nil
	}

	report, err := export.Copy(cmd.Context(), cfg.DatasetDir, cfg.OutputDir, matches)
	if err != nil {
		return err
	}
	for _, failure := range report.Failures {
		a.logger.Warn("failed to copy image", "id", failure.ID, "error", failure.Err)
	}
	if !a.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d of %d images to %s\n", len(report.Copied), len(matches), cfg.OutputDir)
	}
	return nil
}
