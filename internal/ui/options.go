package ui

import (
	"fmt"

	"github.com/dshills/termtree/internal/renderer/core"
)

// Position is the positioning mode of a node.
type Position uint8

const (
	// PositionRelative nodes are placed by the renderer's Layout.
	PositionRelative Position = iota
	// PositionAbsolute nodes are placed at Left/Top from the parent origin.
	PositionAbsolute
)

// String returns the position mode name.
func (p Position) String() string {
	if p == PositionAbsolute {
		return "absolute"
	}
	return "relative"
}

// ParsePosition parses "absolute" or "relative". Empty means relative.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "", "relative":
		return PositionRelative, nil
	case "absolute":
		return PositionAbsolute, nil
	}
	return PositionRelative, fmt.Errorf("unknown position %q", s)
}

// Style carries paint-only settings. The interaction core never reads it.
// A zero Color means the terminal default; use core.ColorFromIndex(0) for
// black.
type Style struct {
	Border     bool
	Foreground core.Color
	Background core.Color
	Attributes core.Attribute
}

// DefaultStyle returns a borderless style with terminal default colors.
func DefaultStyle() Style {
	return Style{
		Foreground: core.ColorDefault,
		Background: core.ColorDefault,
	}
}

// normalized maps zero colors to core.ColorDefault.
func (s Style) normalized() Style {
	if s.Foreground == (core.Color{}) {
		s.Foreground = core.ColorDefault
	}
	if s.Background == (core.Color{}) {
		s.Background = core.ColorDefault
	}
	return s
}

func (s Style) cellStyle() core.Style {
	return core.Style{
		Foreground: s.Foreground,
		Background: s.Background,
		Attributes: s.Attributes,
	}
}

// Options configures a node at creation time.
//
// Width and Height of zero mean "size automatically"; negative values are
// rejected with ErrInvalidSize.
type Options struct {
	ID        string
	Width     int
	Height    int
	Position  Position
	Left      int
	Top       int
	Focusable bool

	// Focused binds the node's focus to an externally controlled value.
	// It is reconciled on the next settle.
	Focused *bool

	// Visible defaults to true when nil.
	Visible *bool

	Text  string
	Style Style

	OnMouseDown Handler
	OnMouseUp   Handler
	OnMouseMove Handler
	OnClick     Handler
	OnScroll    Handler
	OnMouseOver Handler
	OnMouseOut  Handler
	OnDragEnd   Handler
}

// Bool returns a pointer to v, for Options.Focused and Options.Visible.
func Bool(v bool) *bool {
	return &v
}

func (o Options) validate() error {
	if o.Width < 0 || o.Height < 0 {
		return ErrInvalidSize
	}
	return nil
}

func (o Options) handlers() map[EventKind]Handler {
	h := make(map[EventKind]Handler)
	set := func(k EventKind, fn Handler) {
		if fn != nil {
			h[k] = fn
		}
	}
	set(EventDown, o.OnMouseDown)
	set(EventUp, o.OnMouseUp)
	set(EventMove, o.OnMouseMove)
	set(EventClick, o.OnClick)
	set(EventScroll, o.OnScroll)
	set(EventOver, o.OnMouseOver)
	set(EventOut, o.OnMouseOut)
	set(EventDragEnd, o.OnDragEnd)
	return h
}
