package scene

import (
	"errors"
	"fmt"

	"github.com/dshills/termtree/internal/logging"
	"github.com/dshills/termtree/internal/script"
	"github.com/dshills/termtree/internal/ui"
)

// Instance is a scene mounted under a renderer's root.
type Instance struct {
	File   *File
	Nodes  []*ui.Node
	Engine *script.Engine

	r *ui.Renderer
}

// Mount builds f under r's root. A scene with a script gets its own Lua
// engine; opts configure it. On error nothing is left attached.
func Mount(r *ui.Renderer, f *File, log *logging.Logger, opts ...script.Option) (*Instance, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("scene").WithField("path", f.Path)

	inst := &Instance{File: f, r: r}
	if f.Script != "" || f.hasHandlers() {
		eng, err := script.New(r, append([]script.Option{script.WithLogger(log)}, opts...)...)
		if err != nil {
			return nil, err
		}
		inst.Engine = eng
		if f.Script != "" {
			if err := eng.Load(f.label(), f.Script); err != nil {
				eng.Close()
				return nil, &Error{Path: f.Path, Msg: "script", Err: err}
			}
		}
	}

	for i := range f.Nodes {
		n, err := inst.build(&f.Nodes[i])
		if err == nil {
			err = r.Root().Add(n)
		}
		if err != nil {
			inst.Unmount()
			if n != nil && !n.Destroyed() {
				_ = n.Destroy()
			}
			return nil, err
		}
		inst.Nodes = append(inst.Nodes, n)
	}
	log.Debug("mounted %d top-level nodes", len(inst.Nodes))
	return inst, nil
}

// build creates a detached subtree.
func (inst *Instance) build(def *Node) (*ui.Node, error) {
	kind, err := def.kind()
	if err != nil {
		return nil, &Error{Path: inst.File.Path, Node: def.ID, Msg: "kind", Err: err}
	}
	opts, err := def.options()
	if err != nil {
		return nil, &Error{Path: inst.File.Path, Node: def.ID, Msg: "options", Err: err}
	}
	n, err := inst.r.NewNode(kind, opts)
	if err != nil {
		return nil, err
	}

	for name, fn := range def.On {
		ek, _ := ui.ParseEventKind(name)
		h, err := inst.Engine.Handler(fn)
		if err == nil {
			err = n.SetHandler(ek, h)
		}
		if err != nil {
			_ = n.Destroy()
			return nil, &Error{Path: inst.File.Path, Node: n.ID(), Msg: "on." + name, Err: err}
		}
	}

	for i := range def.Children {
		c, err := inst.build(&def.Children[i])
		if err == nil {
			err = n.Add(c)
		}
		if err != nil {
			_ = n.Destroy()
			return nil, err
		}
	}
	return n, nil
}

// Unmount destroys the scene's nodes and closes its engine.
func (inst *Instance) Unmount() error {
	var errs []error
	for _, n := range inst.Nodes {
		if n.Destroyed() {
			continue
		}
		if err := n.Destroy(); err != nil && !errors.Is(err, ui.ErrRendererDestroyed) {
			errs = append(errs, err)
		}
	}
	inst.Nodes = nil
	if inst.Engine != nil {
		errs = append(errs, inst.Engine.Close())
		inst.Engine = nil
	}
	return errors.Join(errs...)
}

func (f *File) hasHandlers() bool {
	var walk func([]Node) bool
	walk = func(nodes []Node) bool {
		for i := range nodes {
			if len(nodes[i].On) > 0 || walk(nodes[i].Children) {
				return true
			}
		}
		return false
	}
	return walk(f.Nodes)
}

func (f *File) label() string {
	if f.Path == "" {
		return "scene"
	}
	return fmt.Sprintf("scene:%s", f.Path)
}
