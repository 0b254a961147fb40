package ui

import "github.com/dshills/termtree/internal/renderer/core"

type scrollState struct {
	x, y     int
	contentW int
	contentH int

	// pending holds an offset requested while a gesture is in flight.
	pending *core.Point
	// held marks the node as waiting in Renderer.pendingScroll.
	held    bool
}

// ViewportRect returns the visible area of a scroll box: its rectangle
// minus the border.
func (n *Node) ViewportRect() core.Rect {
	return n.contentRect()
}

// ContentSize returns the extent of the scroll box's children measured by
// the last render pass.
func (n *Node) ContentSize() (int, int) {
	return n.scroll.contentW, n.scroll.contentH
}

// ScrollOffset returns the committed scroll offset.
func (n *Node) ScrollOffset() (int, int) {
	return n.scroll.x, n.scroll.y
}

// MaxScroll returns the largest valid offset for each axis.
func (n *Node) MaxScroll() (int, int) {
	vp := n.ViewportRect()
	return max(0, n.scroll.contentW-vp.Width), max(0, n.scroll.contentH-vp.Height)
}

// ScrollTo sets the scroll offset, clamped to the content. While a pointer
// gesture is in flight the change is held and committed when it ends.
// Non scroll boxes ignore the call.
func (n *Node) ScrollTo(x, y int) error {
	if err := n.check("scroll"); err != nil {
		return err
	}
	if n.kind != KindScrollBox {
		return nil
	}
	if n.r.gesture != nil {
		n.scroll.pending = &core.Point{X: x, Y: y}
		n.holdScroll()
		return nil
	}
	n.applyScroll(x, y)
	return nil
}

// ScrollBy moves the scroll offset by (dx, dy). Pending offsets accumulate.
func (n *Node) ScrollBy(dx, dy int) error {
	x, y := n.scroll.x, n.scroll.y
	if p := n.scroll.pending; p != nil {
		x, y = p.X, p.Y
	}
	return n.ScrollTo(x+dx, y+dy)
}

func (n *Node) applyScroll(x, y int) {
	mx, my := n.MaxScroll()
	x = min(max(x, 0), mx)
	y = min(max(y, 0), my)
	if x == n.scroll.x && y == n.scroll.y {
		return
	}
	n.scroll.x, n.scroll.y = x, y
	n.r.markDirty()
}

func (n *Node) holdScroll() {
	if !n.scroll.held {
		n.scroll.held = true
		n.r.pendingScroll = append(n.r.pendingScroll, n)
	}
}

// clampScroll re-applies the offset invariant after content changed. During
// a gesture the offset stays put and is clamped when the gesture retires.
func (n *Node) clampScroll() {
	if n.r.gesture != nil {
		n.holdScroll()
		return
	}
	mx, my := n.MaxScroll()
	n.scroll.x = min(max(n.scroll.x, 0), mx)
	n.scroll.y = min(max(n.scroll.y, 0), my)
}

// commitPendingScroll applies offsets and clamps held back during a gesture.
func (r *Renderer) commitPendingScroll() {
	nodes := r.pendingScroll
	r.pendingScroll = nil
	for _, n := range nodes {
		n.scroll.held = false
		p := n.scroll.pending
		n.scroll.pending = nil
		switch {
		case n.destroyed:
		case p != nil:
			n.applyScroll(p.X, p.Y)
		default:
			x, y := n.scroll.x, n.scroll.y
			n.clampScroll()
			if x != n.scroll.x || y != n.scroll.y {
				r.markDirty()
			}
		}
	}
}

// nearestScrollBox returns n or its closest scroll box ancestor.
func nearestScrollBox(n *Node) *Node {
	for p := n; p != nil; p = p.parent {
		if p.kind == KindScrollBox {
			return p
		}
	}
	return nil
}
