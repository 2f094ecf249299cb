package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors the chat TUI draws with
type Palette struct {
	Name        string
	Description string

	Border  lipgloss.Color
	Title   lipgloss.Color // header and model bubble accents
	User    lipgloss.Color // user bubble border
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Mute    lipgloss.Color

	// Thinking indicator cycles through these
	Gradient []lipgloss.Color
}

var palettes = map[string]Palette{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",
		Border:      "#414868",
		Title:       "#7aa2f7",
		User:        "#9ece6a",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		Dim:         "#565f89",
		Mute:        "#3b4261",
		Gradient:    []lipgloss.Color{"#7aa2f7", "#7dcfff", "#bb9af7", "#9ece6a", "#e0af68"},
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",
		Border:      "#45475a",
		Title:       "#89b4fa",
		User:        "#a6e3a1",
		Accent:      "#cba6f7",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		Dim:         "#6c7086",
		Mute:        "#45475a",
		Gradient:    []lipgloss.Color{"#89b4fa", "#94e2d5", "#cba6f7", "#f5c2e7", "#a6e3a1"},
	},
	"nord": {
		Name:        "nord",
		Description: "Nord, cool arctic tones",
		Border:      "#4c566a",
		Title:       "#88c0d0",
		User:        "#a3be8c",
		Accent:      "#b48ead",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		Dim:         "#7b88a1",
		Mute:        "#4c566a",
		Gradient:    []lipgloss.Color{"#8fbcbb", "#88c0d0", "#81a1c1", "#5e81ac", "#b48ead"},
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dracula, vibrant dark",
		Border:      "#6272a4",
		Title:       "#8be9fd",
		User:        "#50fa7b",
		Accent:      "#ff79c6",
		Warning:     "#f1fa8c",
		Error:       "#ff5555",
		Text:        "#f8f8f2",
		Dim:         "#6272a4",
		Mute:        "#44475a",
		Gradient:    []lipgloss.Color{"#8be9fd", "#50fa7b", "#ffb86c", "#ff79c6", "#bd93f9"},
	},
}

// DefaultPalette is used when the configured name is unknown
const DefaultPalette = "tokyonight"

var (
	paletteMu      sync.RWMutex
	currentPalette = palettes[DefaultPalette]
)

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return currentPalette
}

// SetPalette activates the named palette. It returns false and leaves the
// current palette in place when the name is unknown.
func SetPalette(name string) bool {
	p, ok := PaletteByName(name)
	if !ok {
		return false
	}
	paletteMu.Lock()
	currentPalette = p
	paletteMu.Unlock()
	return true
}

// PaletteByName looks up a palette
func PaletteByName(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// PaletteNames returns the available palette names, sorted
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
