package render

import (
	"sort"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names understood without a JSON file
const (
	StyleDark  = styles.DarkStyle
	StyleLight = styles.LightStyle
	StyleNoTTY = styles.NoTTYStyle
	StyleASCII = styles.AsciiStyle
)

// IsStandardStyle reports whether name is one of glamour's built-in styles
func IsStandardStyle(name string) bool {
	_, ok := styles.DefaultStyles[name]
	return ok
}

// StandardStyles returns the names of the built-in markdown styles, sorted
func StandardStyles() []string {
	names := make([]string, 0, len(styles.DefaultStyles))
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// styleOption picks the glamour option for opts.Style. Anything that is
// not a built-in style name is treated as a path to a JSON style file.
func styleOption(opts Options) glamour.TermRendererOption {
	if cfg, ok := resolveStyle(opts); ok {
		return glamour.WithStyles(cfg)
	}
	return glamour.WithStylePath(opts.Style)
}

// resolveStyle copies a built-in style so Compact can change its margin
// without touching the shared default.
func resolveStyle(opts Options) (ansi.StyleConfig, bool) {
	base, ok := styles.DefaultStyles[opts.Style]
	if !ok {
		return ansi.StyleConfig{}, false
	}

	cfg := *base
	if opts.Compact {
		var zero uint
		cfg.Document.Margin = &zero
	}
	return cfg, true
}
