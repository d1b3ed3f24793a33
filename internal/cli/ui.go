package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/vmslayers/pkg/layer"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - missing layers
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleAvailable = lipgloss.NewStyle().Foreground(colorGreen)
	styleMissing   = lipgloss.NewStyle().Foreground(colorRed)
	styleAdded     = lipgloss.NewStyle().Foreground(colorGreen)
	styleRemoved   = lipgloss.NewStyle().Foreground(colorRed)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Layer Output
// =============================================================================

// printLayers prints layers on one indented line, styled with style. Layers in
// marked are suffixed with a dim note.
func printLayers(w io.Writer, layers []layer.Layer, style lipgloss.Style, marked layer.Set, note string) {
	if len(layers) == 0 {
		return
	}
	parts := make([]string, len(layers))
	for i, l := range layers {
		if marked.Has(l) {
			parts[i] = styleMissing.Render(l.String()) + StyleDim.Render(" ("+note+")")
			continue
		}
		parts[i] = style.Render(l.String())
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, "  "))
}

// printStats prints resolution statistics on a single line.
func printStats(w io.Writer, offerings, passes int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d offerings", offerings),
		fmt.Sprintf("%d passes", passes),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// printChange prints one availability change as "#seq +a -b".
func printChange(w io.Writer, sequence int, added, removed []layer.Layer) {
	parts := []string{StyleNumber.Render(fmt.Sprintf("#%d", sequence))}
	for _, l := range added {
		parts = append(parts, styleAdded.Render("+"+l.String()))
	}
	for _, l := range removed {
		parts = append(parts, styleRemoved.Render("-"+l.String()))
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
