// Package core holds the cell, color and geometry types shared by the ui
// tree and the paint backends.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Attribute is a set of text attribute flags.
type Attribute uint16

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
)

var attrNames = map[string]Attribute{
	"bold":          AttrBold,
	"dim":           AttrDim,
	"italic":        AttrItalic,
	"underline":     AttrUnderline,
	"blink":         AttrBlink,
	"reverse":       AttrReverse,
	"strikethrough": AttrStrikethrough,
}

// Has reports whether every flag in attr is set.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr == attr && attr != 0
}

// ParseAttribute maps a name such as "bold" to its flag.
func ParseAttribute(name string) (Attribute, error) {
	if a, ok := attrNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a, nil
	}
	return AttrNone, fmt.Errorf("unknown attribute %q", name)
}

// Color is a 24-bit color, a palette slot, or the terminal default.
// For palette colors R holds the index.
type Color struct {
	R, G, B uint8
	Indexed bool
	Default bool
}

// ColorDefault leaves the terminal's own color in place.
var ColorDefault = Color{Default: true}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
}

func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ParseColor parses "default", a palette index ("idx(12)" or "12"), a color
// name or a hex string ("#rgb" / "#rrggbb").
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "default":
		return ColorDefault, nil
	case strings.HasPrefix(s, "idx(") && strings.HasSuffix(s, ")"):
		s = strings.TrimSuffix(strings.TrimPrefix(s, "idx("), ")")
		fallthrough
	case s[0] >= '0' && s[0] <= '9':
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid palette color %q", s)
		}
		return ColorFromIndex(uint8(n)), nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

func (c Color) IsDefault() bool {
	return c.Default
}

// Equals compares only the fields meaningful for c's kind.
func (c Color) Equals(other Color) bool {
	switch {
	case c.Default || other.Default:
		return c.Default == other.Default
	case c.Indexed || other.Indexed:
		return c.Indexed == other.Indexed && c.R == other.R
	}
	return c == other
}

// String renders c in the form ParseColor accepts.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style is the paint state of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

func (s Style) Equals(other Style) bool {
	return s.Attributes == other.Attributes &&
		s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background)
}

// Cell is one terminal cell. Width is the rune's display width.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell is a blank in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune && c.Width == other.Width && c.Style.Equals(other.Style)
}

// RuneWidth is zero for control characters.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// StringWidth returns the display width of s in terminal cells.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned cell rectangle. X/Y is the top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// IsEmpty reports whether the rectangle covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.Width -= 2 * n
	r.Height -= 2 * n
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Intersect returns the overlapping area of r and other.
func (r Rect) Intersect(other Rect) Rect {
	x0, y0 := max(r.X, other.X), max(r.Y, other.Y)
	x1, y1 := min(r.Right(), other.Right()), min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// String formats the rectangle as "x,y wxh".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}
