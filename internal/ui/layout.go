package ui

import (
	"strings"

	"github.com/dshills/termtree/internal/renderer/core"
)

// Layout places relative children inside their parent's content area.
// It is the boundary to the layout engine: the renderer treats the returned
// rectangles as opaque and only computes absolute positions itself.
type Layout interface {
	// Arrange returns one rectangle per child, in the same order.
	Arrange(content core.Rect, children []*Node) []core.Rect
}

// FlowLayout stacks relative children top to bottom.
//
// A child without an explicit width takes the content width (text takes its
// widest line); a child without an explicit height takes its measured
// height: the number of text lines, or the stacked height of its own
// relative children plus border, minimum one row.
type FlowLayout struct{}

// Arrange implements Layout.
func (FlowLayout) Arrange(content core.Rect, children []*Node) []core.Rect {
	rects := make([]core.Rect, len(children))
	y := content.Y
	for i, c := range children {
		w := c.width
		if w == 0 {
			w = content.Width
			if c.kind == KindText {
				w = min(textWidth(c.text), content.Width)
			}
		}
		h := c.height
		if h == 0 {
			h = measureHeight(c, w)
		}
		rects[i] = core.Rect{X: content.X, Y: y, Width: max(w, 0), Height: h}
		y += h
	}
	return rects
}

func measureHeight(n *Node, width int) int {
	if n.height > 0 {
		return n.height
	}
	if n.kind == KindText {
		return max(textHeight(n.text), 1)
	}
	inset := 0
	if n.hasBorder() {
		inset = 2
	}
	h := 0
	for _, c := range n.children {
		if !c.visible || c.position == PositionAbsolute {
			continue
		}
		h += measureHeight(c, width-inset)
	}
	return max(h+inset, 1)
}

func textLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func textWidth(s string) int {
	w := 0
	for _, line := range textLines(s) {
		w = max(w, core.StringWidth(line))
	}
	return w
}

func textHeight(s string) int {
	return len(textLines(s))
}

// resolve computes every node's rectangle. Rectangles of a scroll box's
// descendants are in the box's unscrolled content space.
func (r *Renderer) resolve() {
	r.root.rect = core.Rect{Width: r.width, Height: r.height}
	r.resolveChildren(r.root)
}

func (r *Renderer) resolveChildren(n *Node) {
	content := n.contentRect()

	var flow []*Node
	for _, c := range n.children {
		if !c.visible {
			c.rect = core.Rect{}
			continue
		}
		if c.position == PositionAbsolute {
			c.rect = absoluteRect(n, c)
			continue
		}
		flow = append(flow, c)
	}
	if len(flow) > 0 {
		rects := r.layout.Arrange(content, flow)
		for i, c := range flow {
			if i < len(rects) {
				c.rect = rects[i]
			}
		}
	}

	for _, c := range n.children {
		if c.visible {
			r.resolveChildren(c)
		}
	}

	if n.kind == KindScrollBox {
		n.measureContent()
		n.clampScroll()
	}
}

func absoluteRect(parent, c *Node) core.Rect {
	x := parent.rect.X + c.left
	y := parent.rect.Y + c.top
	w, h := c.width, c.height
	if w == 0 {
		if c.kind == KindText {
			w = textWidth(c.text)
		} else {
			w = max(parent.rect.Right()-x, 0)
		}
	}
	if h == 0 {
		h = measureHeight(c, w)
	}
	return core.Rect{X: x, Y: y, Width: w, Height: h}
}

// measureContent records the extent of a scroll box's subtree relative to
// its viewport origin.
func (n *Node) measureContent() {
	vp := n.ViewportRect()
	right, bottom := vp.X, vp.Y
	for _, c := range n.children {
		c.walk(func(d *Node) bool {
			if !d.visible {
				return false
			}
			right = max(right, d.rect.Right())
			bottom = max(bottom, d.rect.Bottom())
			return true
		})
	}
	n.scroll.contentW = right - vp.X
	n.scroll.contentH = bottom - vp.Y
}
