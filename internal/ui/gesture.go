package ui

import "github.com/dshills/termtree/internal/input/mouse"

// gesture is the record of one in-flight button press.
type gesture struct {
	button         mouse.Button
	pressX, pressY int
	target         *Node
	dragging       bool

	// prevented aggregates PreventDefault over the down, up and click
	// events of this gesture.
	prevented bool
	cancelled bool
}

// Pressed reports whether a gesture is in flight and with which button.
func (r *Renderer) Pressed() (mouse.Button, bool) {
	if r.gesture == nil {
		return mouse.ButtonNone, false
	}
	return r.gesture.button, true
}

// CaptureTarget returns the node capturing the in-flight gesture, or nil.
func (r *Renderer) CaptureTarget() *Node {
	if r.gesture == nil {
		return nil
	}
	return r.gesture.target
}

// PressDown starts a gesture at (x, y): the node under the point becomes the
// capture target and receives EventDown.
func (r *Renderer) PressDown(x, y int, b mouse.Button) error {
	if err := r.prepare("press"); err != nil {
		return err
	}
	if r.gesture != nil {
		r.log.Debug("press %s while %s held, cancelling stale gesture", b, r.gesture.button)
		r.retire(r.gesture)
	}

	target := r.hitTest(x, y)
	g := &gesture{button: b, pressX: x, pressY: y, target: target}
	r.gesture = g
	r.log.Debug("press %s at %d,%d on %s", b, x, y, describe(target))

	ev := r.newEvent(EventDown, x, y, g)
	err := r.dispatch(ev, target)
	g.prevented = g.prevented || ev.prevented
	if err != nil {
		r.retire(g)
		return err
	}
	return nil
}

// MoveTo moves the pointer. During a gesture the capture target receives
// EventMove and any movement marks the gesture as a drag. Otherwise the
// node under the pointer receives EventMove, with EventOut and EventOver
// when the hovered node changes.
func (r *Renderer) MoveTo(x, y int) error {
	if err := r.prepare("move"); err != nil {
		return err
	}

	g := r.gesture
	if g == nil {
		return r.hover(x, y)
	}
	if x != g.pressX || y != g.pressY {
		if !g.dragging {
			r.log.Debug("drag start on %s", describe(g.target))
		}
		g.dragging = true
	}
	return r.dispatch(r.newEvent(EventMove, x, y, g), g.target)
}

// Release ends the gesture held with button b. A LEFT release without
// movement synthesizes EventClick and, unless a handler prevented the
// default, focuses the nearest focusable node at or above the capture
// target. Releases that match no gesture are ignored.
func (r *Renderer) Release(x, y int, b mouse.Button) error {
	if err := r.prepare("release"); err != nil {
		return err
	}

	g := r.gesture
	if g == nil || g.button != b {
		r.log.Debug("release %s at %d,%d ignored", b, x, y)
		return nil
	}
	defer r.retire(g)

	up := r.newEvent(EventUp, x, y, g)
	if err := r.dispatch(up, g.target); err != nil {
		return err
	}
	g.prevented = g.prevented || up.prevented
	if g.cancelled {
		return nil
	}

	if g.dragging {
		return r.dispatch(r.newEvent(EventDragEnd, x, y, g), g.target)
	}
	if b != mouse.ButtonLeft || g.target == nil {
		return nil
	}

	click := r.newEvent(EventClick, x, y, g)
	if err := r.dispatch(click, g.target); err != nil {
		return err
	}
	g.prevented = g.prevented || click.prevented
	if g.cancelled || g.prevented || !r.autoFocus {
		return nil
	}
	r.autoFocusFrom(g.target)
	return nil
}

// Click is PressDown immediately followed by Release at the same point.
func (r *Renderer) Click(x, y int, b mouse.Button) error {
	if err := r.PressDown(x, y, b); err != nil {
		return err
	}
	return r.Release(x, y, b)
}

// Scroll dispatches EventScroll to the node under (x, y). Unless prevented,
// the nearest scroll box at or above it scrolls by (dx, dy).
func (r *Renderer) Scroll(x, y, dx, dy int) error {
	if err := r.prepare("scroll"); err != nil {
		return err
	}
	target := r.hitTest(x, y)
	ev := r.newEvent(EventScroll, x, y, nil)
	ev.DX, ev.DY = dx, dy
	if err := r.dispatch(ev, target); err != nil {
		return err
	}
	if ev.prevented {
		return nil
	}
	if sb := nearestScrollBox(target); sb != nil && !sb.destroyed {
		return sb.ScrollBy(dx, dy)
	}
	return nil
}

// Hovered returns the node under the pointer as of the last idle move.
func (r *Renderer) Hovered() *Node {
	return r.hovered
}

func (r *Renderer) hover(x, y int) error {
	target := r.hitTest(x, y)
	if prev := r.hovered; prev != target {
		r.hovered = target
		if prev != nil && !prev.destroyed {
			if err := r.dispatch(r.newEvent(EventOut, x, y, nil), prev); err != nil {
				return err
			}
		}
		if target != nil {
			if err := r.dispatch(r.newEvent(EventOver, x, y, nil), target); err != nil {
				return err
			}
		}
	}
	return r.dispatch(r.newEvent(EventMove, x, y, nil), target)
}

// retire ends g and commits scroll offsets held back while it was active.
func (r *Renderer) retire(g *gesture) {
	if r.gesture != g {
		return
	}
	r.gesture = nil
	r.commitPendingScroll()
}

// cancelGesture drops the in-flight gesture without further events.
func (r *Renderer) cancelGesture() {
	g := r.gesture
	if g == nil {
		return
	}
	g.cancelled = true
	r.log.Debug("gesture on %s cancelled", describe(g.target))
	r.retire(g)
}
