// Package ui is the interaction core of a terminal UI tree: nodes with
// geometry, hit testing through scroll viewports, a press/move/release
// gesture state machine, bubbling dispatch with default-action suppression,
// and a single focus holder per renderer.
//
// A Renderer and its nodes belong to one goroutine. The only exception is
// the update queue (Renderer.Enqueue and Node.SetFocusedProp), which may be
// fed from anywhere and is applied by Settle.
package ui

import (
	"github.com/google/uuid"

	"github.com/dshills/termtree/internal/logging"
	"github.com/dshills/termtree/internal/renderer/backend"
)

// Config holds renderer settings fixed at construction.
type Config struct {
	// Width and Height of the drawing surface. Zero takes the backend size,
	// or 80x24 without a backend.
	Width  int
	Height int

	// AutoFocus moves focus to the nearest focusable node on LEFT click.
	AutoFocus bool
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{AutoFocus: true}
}

// Option configures optional renderer collaborators.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithBackend paints every render pass to b. The renderer initializes b
// and shuts it down on Destroy.
func WithBackend(b backend.Backend) Option {
	return func(r *Renderer) { r.backend = b }
}

// WithLayout replaces the FlowLayout used for relative nodes.
func WithLayout(l Layout) Option {
	return func(r *Renderer) {
		if l != nil {
			r.layout = l
		}
	}
}

// WithWake registers a function called after every Enqueue, so an event
// loop blocked elsewhere can come back and Settle.
func WithWake(fn func()) Option {
	return func(r *Renderer) { r.wake = fn }
}

// WithIDGenerator replaces the generator for nodes created without an id.
func WithIDGenerator(fn func() string) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Renderer owns a node tree, its focus pointer and the in-flight gesture.
type Renderer struct {
	root      *Node
	width     int
	height    int
	autoFocus bool

	focused       *Node
	gesture       *gesture
	hovered       *Node
	pendingScroll []*Node

	layout  Layout
	backend backend.Backend
	log     *logging.Logger
	newID   func() string
	wake    func()
	queue   updateQueue

	dirty     bool
	frames    int
	destroyed bool
}

// NewRenderer creates a renderer with an empty root.
func NewRenderer(cfg Config, opts ...Option) (*Renderer, error) {
	if cfg.Width < 0 || cfg.Height < 0 {
		return nil, newOpError("new renderer", "", ErrInvalidSize)
	}

	r := &Renderer{
		width:     cfg.Width,
		height:    cfg.Height,
		autoFocus: cfg.AutoFocus,
		layout:    FlowLayout{},
		log:       logging.Nop(),
		newID:     uuid.NewString,
		dirty:     true,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("ui")

	if r.backend != nil {
		if err := r.backend.Init(); err != nil {
			return nil, newOpError("new renderer", "backend", err)
		}
		bw, bh := r.backend.Size()
		if r.width == 0 {
			r.width = bw
		}
		if r.height == 0 {
			r.height = bh
		}
	}
	if r.width == 0 {
		r.width = 80
	}
	if r.height == 0 {
		r.height = 24
	}

	r.root = &Node{
		r:        r,
		id:       "root",
		kind:     KindRoot,
		visible:  true,
		style:    DefaultStyle(),
		handlers: make(map[EventKind]Handler),
	}
	return r, nil
}

// NewNode creates a detached node of the given kind.
func (r *Renderer) NewNode(kind Kind, opts Options) (*Node, error) {
	const op = "new node"
	if err := r.alive(op); err != nil {
		return nil, err
	}
	if kind == KindRoot {
		return nil, newOpError(op, opts.ID, ErrRootNode)
	}
	if err := opts.validate(); err != nil {
		return nil, newOpError(op, opts.ID, err)
	}

	n := &Node{
		r:         r,
		id:        opts.ID,
		kind:      kind,
		position:  opts.Position,
		left:      opts.Left,
		top:       opts.Top,
		width:     opts.Width,
		height:    opts.Height,
		text:      opts.Text,
		style:     opts.Style.normalized(),
		visible:   opts.Visible == nil || *opts.Visible,
		focusable: opts.Focusable,
		handlers:  opts.handlers(),
	}
	if n.id == "" {
		n.id = r.newID()
	}
	if opts.Focused != nil {
		if err := n.SetFocusedProp(*opts.Focused); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// NewBox creates a detached box.
func (r *Renderer) NewBox(opts Options) (*Node, error) {
	return r.NewNode(KindBox, opts)
}

// NewText creates a detached text node.
func (r *Renderer) NewText(opts Options) (*Node, error) {
	return r.NewNode(KindText, opts)
}

// NewScrollBox creates a detached scroll viewport.
func (r *Renderer) NewScrollBox(opts Options) (*Node, error) {
	return r.NewNode(KindScrollBox, opts)
}

// Root returns the root node.
func (r *Renderer) Root() *Node { return r.root }

// Width returns the surface width.
func (r *Renderer) Width() int { return r.width }

// Height returns the surface height.
func (r *Renderer) Height() int { return r.height }

// Frames returns the number of completed render passes.
func (r *Renderer) Frames() int { return r.frames }

// Destroyed reports whether Destroy has been called.
func (r *Renderer) Destroyed() bool { return r.destroyed }

// Resize changes the surface size. Geometry is resolved on the next pass.
func (r *Renderer) Resize(width, height int) error {
	const op = "resize"
	if err := r.alive(op); err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return newOpError(op, "", ErrInvalidSize)
	}
	r.width, r.height = width, height
	r.markDirty()
	return nil
}

// FindByID returns the first attached node with the given id, in tree order.
func (r *Renderer) FindByID(id string) *Node {
	if r.destroyed {
		return nil
	}
	var found *Node
	r.root.walk(func(n *Node) bool {
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Destroy tears down the tree, clears focus and any gesture, and releases
// the backend. Every later operation fails with ErrRendererDestroyed.
func (r *Renderer) Destroy() error {
	if err := r.alive("destroy"); err != nil {
		return err
	}
	r.queue.close()
	r.cancelGesture()
	if r.focused != nil {
		r.focused.focused = false
		r.focused = nil
	}
	r.hovered = nil
	r.pendingScroll = nil

	for _, c := range r.root.children {
		c.parent = nil
		c.markDestroyed()
	}
	r.root.children = nil
	r.root.markDestroyed()
	r.destroyed = true

	if r.backend != nil {
		r.backend.Shutdown()
	}
	r.log.Debug("renderer destroyed after %d frames", r.frames)
	return nil
}

func (r *Renderer) alive(op string) error {
	if r.destroyed {
		return newOpError(op, "", ErrRendererDestroyed)
	}
	return nil
}

func (r *Renderer) markDirty() {
	r.dirty = true
}

// prepare runs before every input primitive: queued updates are applied and
// geometry is re-resolved when the tree changed since the last pass.
func (r *Renderer) prepare(op string) error {
	if err := r.alive(op); err != nil {
		return err
	}
	if err := r.drain(); err != nil {
		return newOpError(op, "", err)
	}
	if r.dirty {
		return r.render()
	}
	return nil
}

// render runs one layout and paint pass.
func (r *Renderer) render() error {
	if err := r.alive("render"); err != nil {
		return err
	}
	r.resolve()
	r.paint()
	r.dirty = false
	r.frames++
	return nil
}

// detach releases focus, capture and hover held inside n's subtree.
func (r *Renderer) detach(n *Node) {
	if r.focused != nil && n.IsAncestorOf(r.focused) {
		r.blurNode(r.focused)
	}
	if g := r.gesture; g != nil && g.target != nil && n.IsAncestorOf(g.target) {
		r.cancelGesture()
	}
	if r.hovered != nil && n.IsAncestorOf(r.hovered) {
		r.hovered = nil
	}
}
