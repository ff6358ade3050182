// Package theme supplies the color palette for the table UI and the
// light/dark toggle.
//
// Colors are defined as token scales (grey, primary, greenAccent, redAccent,
// blueAccent) with shades 100 through 900. Dark mode uses the scales as
// written; light mode reverses every scale, so shade 100 in light mode is
// shade 900 in dark mode (with a few overrides for surfaces). Components never look tokens up directly: they ask
// a Palette for semantic names such as "header" or "rowHover".
//
// A Palette is passed explicitly to whatever renders it; there is no package
// level "current theme".
package theme

import (
	"fmt"
	"sort"
	"strings"
)

// Mode is the active color mode.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// ParseMode parses "dark" or "light" (case-insensitive). Empty means Dark.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Dark:
		return Dark, nil
	case Light:
		return Light, nil
	default:
		return "", fmt.Errorf("unknown theme mode %q (want dark or light)", s)
	}
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Shades lists the shade keys of every token scale.
var Shades = []int{100, 200, 300, 400, 500, 600, 700, 800, 900}

// darkTokens are the base token scales.
var darkTokens = map[string]map[int]string{
	"grey": {
		100: "#e0e0e0", 200: "#c2c2c2", 300: "#a3a3a3", 400: "#858585", 500: "#666666",
		600: "#525252", 700: "#3d3d3d", 800: "#292929", 900: "#141414",
	},
	"primary": {
		100: "#d0d1d5", 200: "#a1a4ab", 300: "#727681", 400: "#1f2a40", 500: "#141b2d",
		600: "#101624", 700: "#0c101b", 800: "#080b12", 900: "#040509",
	},
	"greenAccent": {
		100: "#dbf5ee", 200: "#b7ebde", 300: "#94e2cd", 400: "#70d8bd", 500: "#4cceac",
		600: "#3da58a", 700: "#2e7c67", 800: "#1e5245", 900: "#0f2922",
	},
	"redAccent": {
		100: "#f8dcdb", 200: "#f1b9b7", 300: "#e99592", 400: "#e2726e", 500: "#db4f4a",
		600: "#af3f3b", 700: "#832f2c", 800: "#58201e", 900: "#2c100f",
	},
	"blueAccent": {
		100: "#e1e2fe", 200: "#c3c6fd", 300: "#a4a9fc", 400: "#868dfb", 500: "#6870fa",
		600: "#535ac8", 700: "#3e4396", 800: "#2a2d64", 900: "#151632",
	},
}

// lightOverrides replace reversed shades that would leave light mode with a
// dark surface.
var lightOverrides = map[string]map[int]string{
	"primary": {400: "#f2f0f0"},
}

type tokenRef struct {
	scale string
	shade int
}

// semantic maps semantic color names to token references.
var semantic = map[string]tokenRef{
	"surface":    {"primary", 400},
	"header":     {"blueAccent", 700},
	"headerText": {"grey", 100},
	"rowHover":   {"grey", 800},
	"checkbox":   {"greenAccent", 200},
	"text":       {"grey", 100},
	"muted":      {"grey", 300},
	"accent":     {"greenAccent", 500},
	"notice":     {"redAccent", 500},
}

// Badge colors are fixed in both modes.
const (
	badgeColor     = "#393e46"
	badgeTextColor = "#fcfefe"
)

// Palette resolves semantic color names for one mode.
type Palette struct {
	Mode   Mode
	tokens map[string]map[int]string
}

// NewPalette builds the palette for mode.
func NewPalette(mode Mode) Palette {
	if mode != Light {
		return Palette{Mode: Dark, tokens: darkTokens}
	}
	light := make(map[string]map[int]string, len(darkTokens))
	for name, scale := range darkTokens {
		rev := make(map[int]string, len(scale))
		for i, shade := range Shades {
			rev[shade] = scale[Shades[len(Shades)-1-i]]
		}
		for shade, color := range lightOverrides[name] {
			rev[shade] = color
		}
		light[name] = rev
	}
	return Palette{Mode: Light, tokens: light}
}

// Token returns the color for scale at shade, or "" if unknown.
func (p Palette) Token(scale string, shade int) string {
	return p.tokens[scale][shade]
}

// Color returns the color for a semantic name, or "" if unknown.
func (p Palette) Color(name string) string {
	switch name {
	case "background":
		if p.Mode == Light {
			return "#fcfcfc"
		}
		return p.Token("primary", 500)
	case "badge":
		return badgeColor
	case "badgeText":
		return badgeTextColor
	}
	ref, ok := semantic[name]
	if !ok {
		return ""
	}
	return p.Token(ref.scale, ref.shade)
}

// Names returns every semantic color name, sorted.
func Names() []string {
	names := []string{"background", "badge", "badgeText"}
	for n := range semantic {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Colors returns the semantic mapping for this palette.
func (p Palette) Colors() map[string]string {
	out := make(map[string]string)
	for _, n := range Names() {
		out[n] = p.Color(n)
	}
	return out
}

// CSSVariables renders the palette as a :root rule of custom properties,
// e.g. "--color-header: #3e4396;".
func (p Palette) CSSVariables() string {
	var b strings.Builder
	b.WriteString(":root{")
	for _, n := range Names() {
		fmt.Fprintf(&b, "--color-%s:%s;", n, p.Color(n))
	}
	fmt.Fprintf(&b, "color-scheme:%s;}", p.Mode)
	return b.String()
}
