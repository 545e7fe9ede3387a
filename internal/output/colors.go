package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Name     *color.Color
	Method   *color.Color
	URL      *color.Color
	Pass     *color.Color
	Fail     *color.Color
	Label    *color.Color
	Value    *color.Color
	Muted    *color.Color
	Error    *color.Color
	Emphasis *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Name:     color.New(color.FgMagenta, color.Bold),
		Method:   color.New(color.FgBlue, color.Bold),
		URL:      color.New(color.FgCyan),
		Pass:     color.New(color.FgGreen, color.Bold),
		Fail:     color.New(color.FgRed, color.Bold),
		Label:    color.New(color.FgYellow),
		Value:    color.New(color.FgWhite),
		Muted:    color.New(color.Faint),
		Error:    color.New(color.FgRed),
		Emphasis: color.New(color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	for _, c := range []*color.Color{
		scheme.Name,
		scheme.Method,
		scheme.URL,
		scheme.Pass,
		scheme.Fail,
		scheme.Label,
		scheme.Value,
		scheme.Muted,
		scheme.Error,
		scheme.Emphasis,
	} {
		c.DisableColor()
	}

	return scheme
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
