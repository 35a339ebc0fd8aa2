package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/cache"
	"github.com/procflow/procflow/pkg/document"
	"github.com/procflow/procflow/pkg/dot"
	"github.com/procflow/procflow/pkg/mermaid"
	"github.com/procflow/procflow/pkg/process"
)

// =============================================================================
// Formats
// =============================================================================

const (
	// FormatMermaid emits Mermaid flowchart markup (default).
	FormatMermaid = "mermaid"
	// FormatJSON emits the process document itself.
	FormatJSON = "json"
	// FormatDOT emits Graphviz DOT source.
	FormatDOT = "dot"
	// FormatSVG renders an SVG image through Graphviz.
	FormatSVG = "svg"
	// FormatPNG renders a PNG image through Graphviz.
	FormatPNG = "png"
)

// renderCacheTTL bounds how long rendered images are reused.
const renderCacheTTL = 7 * 24 * time.Hour

// validFormats lists the accepted --format values.
var validFormats = []string{FormatMermaid, FormatJSON, FormatDOT, FormatSVG, FormatPNG}

// validateFormat checks a --format value.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want %s)", format, strings.Join(validFormats, ", "))
}

// textFormat reports whether a format produces text that can go to stdout.
func textFormat(format string) bool {
	return format == FormatMermaid || format == FormatJSON || format == FormatDOT
}

// =============================================================================
// Command
// =============================================================================

// renderCommand creates the render command for projecting a process document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [process.json]",
		Short: "Render a process document as a diagram",
		Long: `Render a process document as a diagram.

Text formats (mermaid, dot, json) print to stdout unless --output is given.
Image formats (svg, png) go through Graphviz and are written next to the
input file unless --output is given. Rendered images are cached locally.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			input := defaultDocument
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, format, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatMermaid, "output format: mermaid, json, dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for text formats)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable render caching")

	return cmd
}

// runRender loads the document and produces the requested projection.
func (c *CLI) runRender(ctx context.Context, input, format, output string, noCache bool) error {
	p, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	if textFormat(format) {
		text, err := projectText(p, format)
		if err != nil {
			return err
		}
		if output == "" {
			fmt.Print(text)
			return nil
		}
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Rendered %s", format)
		printFile(output)
		return nil
	}

	data, cached, err := c.renderImage(ctx, p, format, noCache)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + "." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %s", format)
	printFile(output)
	printStats(p.NodeCount(), p.EdgeCount(), cached)
	return nil
}

// projectText produces the text projection for a format.
func projectText(p *process.Process, format string) (string, error) {
	switch format {
	case FormatMermaid:
		return mermaid.Render(p) + "\n", nil
	case FormatDOT:
		return dot.ToDOT(p), nil
	case FormatJSON:
		data, err := document.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("encode document: %w", err)
		}
		return string(data) + "\n", nil
	}
	return "", fmt.Errorf("unknown text format %q", format)
}

// renderImage renders an image through Graphviz, consulting the cache first.
// The cache key is derived from the DOT source, so any change to the process
// produces a fresh render.
func (c *CLI) renderImage(ctx context.Context, p *process.Process, format string, noCache bool) ([]byte, bool, error) {
	source := dot.ToDOT(p)

	store, err := newCache(noCache)
	if err != nil {
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	key := cache.ArtifactKey(format, source)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("render cache hit", "format", format)
		return data, true, nil
	}

	prog := newProgress(c.Logger)
	var data []byte
	switch format {
	case FormatSVG:
		data, err = dot.RenderSVG(ctx, source)
	case FormatPNG:
		data, err = dot.RenderPNG(ctx, source)
	default:
		return nil, false, fmt.Errorf("unknown image format %q", format)
	}
	if err != nil {
		return nil, false, err
	}
	prog.done(fmt.Sprintf("Rendered %s", format))

	if err := store.Set(ctx, key, data, renderCacheTTL); err != nil {
		c.Logger.Debug("cache write failed", "err", err)
	}
	return data, false, nil
}
