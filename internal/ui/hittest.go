package ui

// HitTest returns the topmost visible node containing (x, y), or nil.
// Later siblings are tested before earlier ones and descendants before
// their ancestors. Children of a scroll box are only reachable through its
// viewport, with the point shifted into content space by the scroll offset.
func (r *Renderer) HitTest(x, y int) (*Node, error) {
	if err := r.prepare("hit test"); err != nil {
		return nil, err
	}
	return r.hitTest(x, y), nil
}

func (r *Renderer) hitTest(x, y int) *Node {
	return hitNode(r.root, x, y)
}

func hitNode(n *Node, x, y int) *Node {
	if !n.visible {
		return nil
	}

	cx, cy, descend := x, y, true
	if n.kind == KindScrollBox {
		descend = n.ViewportRect().Contains(x, y)
		cx, cy = x+n.scroll.x, y+n.scroll.y
	}
	if descend {
		for i := len(n.children) - 1; i >= 0; i-- {
			if hit := hitNode(n.children[i], cx, cy); hit != nil {
				return hit
			}
		}
	}

	if n.rect.Contains(x, y) {
		return n
	}
	return nil
}
