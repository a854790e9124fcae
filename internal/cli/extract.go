package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/huefind/internal/colour"
	"github.com/jmylchreest/huefind/internal/image"
)

type extractOptions struct {
	format   string
	preview  bool
	seed     int64
	seedMode string
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract the colour palette of one image",
		Long: `Extract the five colour palette of a single image, exactly as index build
would store it.

Supported image formats: JPEG, PNG

Examples:
  # Hex codes, one per line
  huefind extract photo.jpg

  # RGB triples with swatches
  huefind extract --format rgb --preview photo.png

  # JSON, as stored in the index
  huefind extract -f json photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "hex", "output format (hex, rgb, json)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on for terminals)")
	cmd.Flags().Int64Var(&opts.seed, "seed", colour.DefaultSeed, "clustering seed in fixed seed mode")
	cmd.Flags().StringVar(&opts.seedMode, "seed-mode", "", "seed mode (fixed, content)")

	return cmd
}

func runExtract(cmd *cobra.Command, a *app, opts *extractOptions, imagePath string) error {
	cfg := a.cfg
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.seed
	}
	if cmd.Flags().Changed("seed-mode") {
		cfg.SeedMode = opts.seedMode
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
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	a.logger.Debug("loading image", "path", imagePath)
	img, err := image.NewFileLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	a.logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	palette, err := extractor.Extract(img)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}

	preview := colour.IsTerminal(cmd.OutOrStdout())
	if cmd.Flags().Changed("preview") {
		preview = opts.preview
	}

	output, err := formatPalette(palette, opts.format, preview)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette colour.Palette, format string, preview bool) (string, error) {
	var b strings.Builder
	switch format {
	case "hex", "":
		for _, c := range palette {
			if preview {
				b.WriteString(colour.Swatch(c, 8) + "  ")
			}
			b.WriteString(c.Hex() + "\n")
		}
	case "rgb":
		for _, c := range palette {
			if preview {
				b.WriteString(colour.Swatch(c, 8) + "  ")
			}
			b.WriteString(c.String() + "\n")
		}
	case "json":
		data, err := json.Marshal(palette)
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, json)", format)
	}
	return b.String(), nil
}
