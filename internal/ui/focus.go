package ui

// Focus makes n the renderer's single focus holder, blurring the previous
// one. Nodes that are not focusable, destroyed, detached or owned by another
// renderer are ignored without error.
func (r *Renderer) Focus(n *Node) error {
	if err := r.alive("focus"); err != nil {
		return err
	}
	r.focusNode(n)
	return nil
}

// Blur clears focus if n holds it.
func (r *Renderer) Blur(n *Node) error {
	if err := r.alive("blur"); err != nil {
		return err
	}
	r.blurNode(n)
	return nil
}

// FocusedNode returns the current focus holder, or nil.
func (r *Renderer) FocusedNode() *Node {
	return r.focused
}

// AutoFocus reports whether clicks move focus.
func (r *Renderer) AutoFocus() bool {
	return r.autoFocus
}

// ReconcileFocused applies an externally controlled focus value through the
// same paths as Focus and Blur.
func (r *Renderer) ReconcileFocused(n *Node, v bool) error {
	if err := r.alive("reconcile focus"); err != nil {
		return err
	}
	if v {
		r.focusNode(n)
	} else if r.focused == n {
		r.blurNode(n)
	}
	return nil
}

func (r *Renderer) focusNode(n *Node) bool {
	if n == nil || n.r != r || !n.focusable || n.destroyed || !n.Attached() {
		return false
	}
	if r.focused == n {
		return true
	}
	if prev := r.focused; prev != nil {
		prev.focused = false
		r.focused = nil
	}
	n.focused = true
	r.focused = n
	r.markDirty()
	r.log.Debug("focus %s", describe(n))
	return true
}

func (r *Renderer) blurNode(n *Node) bool {
	if n == nil || r.focused != n {
		return false
	}
	n.focused = false
	r.focused = nil
	r.markDirty()
	r.log.Debug("blur %s", describe(n))
	return true
}

// autoFocusFrom focuses the nearest focusable node at or above n.
func (r *Renderer) autoFocusFrom(n *Node) {
	for p := n; p != nil; p = p.parent {
		if p.focusable {
			r.focusNode(p)
			return
		}
	}
}
