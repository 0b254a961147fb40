package ui

import (
	"slices"

	"github.com/dshills/termtree/internal/renderer/core"
)

// Kind is the node type tag.
type Kind uint8

const (
	KindRoot Kind = iota
	KindBox
	KindText
	KindScrollBox
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindScrollBox:
		return "scrollbox"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name as produced by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindBox, KindText, KindScrollBox} {
		if k.String() == s {
			return k, true
		}
	}
	return KindBox, false
}

// Node is an entry in a renderer's tree. A parent owns its children slice;
// the parent pointer is a back-reference used for bubbling.
//
// Nodes are not safe for concurrent use. Only SetFocusedProp may be called
// from another goroutine.
type Node struct {
	r        *Renderer
	id       string
	kind     Kind
	parent   *Node
	children []*Node

	position  Position
	left, top int
	width     int
	height    int
	text      string
	style     Style
	visible   bool
	focusable bool
	focused   bool

	handlers map[EventKind]Handler

	// rect is resolved by the last render pass.
	rect core.Rect

	scroll    scrollState
	destroyed bool
}

// ID returns the node id.
func (n *Node) ID() string { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list in insertion order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Rect returns the rectangle resolved by the last render pass, in the
// content space of the nearest scroll viewport ancestor.
func (n *Node) Rect() core.Rect { return n.rect }

// Focused reports whether the node is the renderer's focus holder.
func (n *Node) Focused() bool { return n.focused }

// Focusable reports whether the node can receive focus.
func (n *Node) Focusable() bool { return n.focusable }

// Visible reports whether the node is painted and hit-testable.
func (n *Node) Visible() bool { return n.visible }

// Text returns the node text.
func (n *Node) Text() string { return n.text }

// Style returns the paint style.
func (n *Node) Style() Style { return n.style }

// Position returns the positioning mode and absolute offsets.
func (n *Node) Position() (Position, int, int) { return n.position, n.left, n.top }

// Destroyed reports whether the node has been destroyed.
func (n *Node) Destroyed() bool { return n.destroyed }

// Renderer returns the owning renderer.
func (n *Node) Renderer() *Renderer { return n.r }

// Attached reports whether the node is reachable from its renderer's root.
func (n *Node) Attached() bool {
	for p := n; p != nil; p = p.parent {
		if p == n.r.root {
			return !p.destroyed
		}
	}
	return false
}

// IsAncestorOf reports whether n is other or one of other's ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) check(op string) error {
	if n.r.destroyed {
		return newOpError(op, n.id, ErrRendererDestroyed)
	}
	if n.destroyed {
		return newOpError(op, n.id, ErrNodeDestroyed)
	}
	return nil
}

// Add appends child to the end of n's children.
func (n *Node) Add(child *Node) error {
	return n.InsertAt(child, -1)
}

// InsertAt inserts child at index. An index out of range appends.
func (n *Node) InsertAt(child *Node, index int) error {
	const op = "add"
	if err := n.check(op); err != nil {
		return err
	}
	if child == nil {
		return newOpError(op, n.id, ErrNotChild)
	}
	if err := child.check(op); err != nil {
		return err
	}
	if child.r != n.r {
		return newOpError(op, child.id, ErrForeignNode)
	}
	if n.kind == KindText {
		return newOpError(op, n.id, ErrNotContainer)
	}
	if child.kind == KindRoot {
		return newOpError(op, child.id, ErrRootNode)
	}
	if child.IsAncestorOf(n) {
		return newOpError(op, child.id, ErrCycle)
	}
	if child.parent != nil {
		return newOpError(op, child.id, ErrHasParent)
	}

	if index < 0 || index >= len(n.children) {
		n.children = append(n.children, child)
	} else {
		n.children = slices.Insert(n.children, index, child)
	}
	child.parent = n
	n.r.markDirty()
	return nil
}

// Remove unlinks child from n. Focus and pointer capture held by any node
// in the removed subtree are released first.
func (n *Node) Remove(child *Node) error {
	const op = "remove"
	if err := n.check(op); err != nil {
		return err
	}
	if child == nil || child.parent != n {
		id := ""
		if child != nil {
			id = child.id
		}
		return newOpError(op, id, ErrNotChild)
	}
	if child.destroyed {
		return newOpError(op, child.id, ErrNodeDestroyed)
	}
	n.r.detach(child)
	n.unlink(child)
	return nil
}

func (n *Node) unlink(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.parent = nil
	n.r.markDirty()
}

// Destroy removes the node from its parent and destroys its subtree.
// Every later operation on a destroyed node fails with ErrNodeDestroyed.
func (n *Node) Destroy() error {
	const op = "destroy"
	if err := n.check(op); err != nil {
		return err
	}
	if n.kind == KindRoot {
		return newOpError(op, n.id, ErrRootNode)
	}
	n.r.detach(n)
	if n.parent != nil {
		n.parent.unlink(n)
	}
	n.markDestroyed()
	return nil
}

func (n *Node) markDestroyed() {
	for _, c := range n.children {
		c.markDestroyed()
	}
	n.destroyed = true
	n.focused = false
	n.handlers = nil
	n.scroll.pending = nil
}

// SetHandler binds h to kind, replacing any previous handler. A nil h unbinds.
func (n *Node) SetHandler(kind EventKind, h Handler) error {
	if err := n.check("set handler"); err != nil {
		return err
	}
	if h == nil {
		delete(n.handlers, kind)
		return nil
	}
	n.handlers[kind] = h
	return nil
}

// Handler returns the handler bound to kind, if any.
func (n *Node) Handler(kind EventKind) Handler {
	return n.handlers[kind]
}

// SetFocusable changes focus eligibility. Making the focus holder
// unfocusable blurs it.
func (n *Node) SetFocusable(v bool) error {
	if err := n.check("set focusable"); err != nil {
		return err
	}
	n.focusable = v
	if !v {
		n.r.blurNode(n)
	}
	return nil
}

// SetSize sets the requested size. Zero means automatic.
func (n *Node) SetSize(width, height int) error {
	const op = "set size"
	if err := n.check(op); err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return newOpError(op, n.id, ErrInvalidSize)
	}
	n.width, n.height = width, height
	n.r.markDirty()
	return nil
}

// SetPosition sets the positioning mode and the absolute offsets.
func (n *Node) SetPosition(p Position, left, top int) error {
	if err := n.check("set position"); err != nil {
		return err
	}
	n.position, n.left, n.top = p, left, top
	n.r.markDirty()
	return nil
}

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(v bool) error {
	if err := n.check("set visible"); err != nil {
		return err
	}
	n.visible = v
	n.r.markDirty()
	return nil
}

// SetText replaces the node text.
func (n *Node) SetText(s string) error {
	if err := n.check("set text"); err != nil {
		return err
	}
	n.text = s
	n.r.markDirty()
	return nil
}

// SetStyle replaces the paint style.
func (n *Node) SetStyle(s Style) error {
	if err := n.check("set style"); err != nil {
		return err
	}
	n.style = s.normalized()
	n.r.markDirty()
	return nil
}

// Focus asks the renderer to focus n. See Renderer.Focus.
func (n *Node) Focus() error {
	return n.r.Focus(n)
}

// Blur asks the renderer to blur n. See Renderer.Blur.
func (n *Node) Blur() error {
	return n.r.Blur(n)
}

// SetFocusedProp is the mutator for an externally controlled focus value.
// It may be called from any goroutine; the value is reconciled on the
// renderer's next settle.
func (n *Node) SetFocusedProp(v bool) error {
	if err := n.check("set focused"); err != nil {
		return err
	}
	return n.r.Enqueue(func() {
		_ = n.r.ReconcileFocused(n, v)
	})
}

// walk visits n and its descendants depth first in insertion order until
// fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) hasBorder() bool {
	return n.style.Border && n.kind != KindText
}

// contentRect is the rectangle available to children and text.
func (n *Node) contentRect() core.Rect {
	if n.hasBorder() {
		return n.rect.Inset(1)
	}
	return n.rect
}
