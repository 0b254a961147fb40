// Package scene reads TOML scene files and mounts them into a renderer.
//
// A scene describes a tree of nodes and an optional Lua script whose global
// functions are bound to node events:
//
//	script = '''
//	function toggle(ev) ui.set_text("status", "clicked " .. ev.target) end
//	'''
//
//	[[nodes]]
//	id = "panel"
//	kind = "box"
//	position = "absolute"
//	left = 2
//	top = 1
//	width = 30
//	height = 6
//	border = true
//	focusable = true
//	on = { click = "toggle" }
//
//	  [[nodes.children]]
//	  id = "status"
//	  kind = "text"
//	  text = "idle"
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termtree/internal/renderer/core"
	"github.com/dshills/termtree/internal/ui"
)

// File is a parsed scene.
type File struct {
	// Path is where the scene was read from, if anywhere.
	Path string `toml:"-"`

	Title string `toml:"title"`

	// Script is inline Lua. ScriptFile names a Lua file relative to the
	// scene; its contents are appended to Script by Load.
	Script     string `toml:"script"`
	ScriptFile string `toml:"scriptFile"`

	Nodes []Node `toml:"nodes"`
}

// Node describes one node and its subtree.
type Node struct {
	ID        string `toml:"id"`
	Kind      string `toml:"kind"`
	Position  string `toml:"position"`
	Left      int    `toml:"left"`
	Top       int    `toml:"top"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Focusable bool   `toml:"focusable"`
	Focused   *bool  `toml:"focused"`
	Visible   *bool  `toml:"visible"`
	Text      string `toml:"text"`

	Border bool     `toml:"border"`
	Fg     string   `toml:"fg"`
	Bg     string   `toml:"bg"`
	Attrs  []string `toml:"attrs"`

	// On maps event names (click, mousedown, ...) to Lua function names.
	On map[string]string `toml:"on"`

	Children []Node `toml:"children"`
}

// Error reports an invalid node in a scene.
type Error struct {
	Path string
	Node string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Node != "" {
		return fmt.Sprintf("scene %s: node %s: %s", e.Path, e.Node, msg)
	}
	return fmt.Sprintf("scene %s: %s", e.Path, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads and validates a scene file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	f, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if f.ScriptFile != "" {
		sp := f.ScriptFile
		if !filepath.IsAbs(sp) {
			sp = filepath.Join(filepath.Dir(path), sp)
		}
		code, err := os.ReadFile(sp)
		if err != nil {
			return nil, &Error{Path: path, Msg: "reading script file", Err: err}
		}
		if f.Script != "" {
			f.Script += "\n"
		}
		f.Script += string(code)
	}
	return f, nil
}

// Parse decodes and validates scene data. path labels errors.
func Parse(path string, data []byte) (*File, error) {
	f := &File{}
	if err := toml.Unmarshal(data, f); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			line, col := de.Position()
			return nil, &Error{Path: path, Msg: fmt.Sprintf("line %d, column %d", line, col), Err: err}
		}
		return nil, &Error{Path: path, Msg: "decode", Err: err}
	}
	f.Path = path
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks kinds, positions, styles, event names and id uniqueness.
func (f *File) Validate() error {
	seen := make(map[string]bool)
	var walk func(nodes []Node, parentKind ui.Kind) error
	walk = func(nodes []Node, parentKind ui.Kind) error {
		for i := range nodes {
			n := &nodes[i]
			label := n.ID
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			fail := func(msg string, err error) error {
				return &Error{Path: f.Path, Node: label, Msg: msg, Err: err}
			}

			if parentKind == ui.KindText {
				return fail("text nodes cannot have children", nil)
			}
			if n.ID != "" {
				if n.ID == "root" || seen[n.ID] {
					return fail("duplicate id", nil)
				}
				seen[n.ID] = true
			}
			kind, err := n.kind()
			if err != nil {
				return fail("kind", err)
			}
			if _, err := ui.ParsePosition(n.Position); err != nil {
				return fail("position", err)
			}
			if n.Width < 0 || n.Height < 0 {
				return fail("size", ui.ErrInvalidSize)
			}
			if _, err := n.style(); err != nil {
				return fail("style", err)
			}
			for ev := range n.On {
				if _, ok := ui.ParseEventKind(ev); !ok {
					return fail("unknown event "+ev, nil)
				}
			}
			if err := walk(n.Children, kind); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(f.Nodes, ui.KindRoot)
}

func (n *Node) kind() (ui.Kind, error) {
	if n.Kind == "" {
		if n.Text != "" && len(n.Children) == 0 {
			return ui.KindText, nil
		}
		return ui.KindBox, nil
	}
	k, ok := ui.ParseKind(n.Kind)
	if !ok {
		return k, fmt.Errorf("unknown kind %q", n.Kind)
	}
	return k, nil
}

func (n *Node) style() (ui.Style, error) {
	s := ui.DefaultStyle()
	s.Border = n.Border
	var err error
	if s.Foreground, err = core.ParseColor(n.Fg); err != nil {
		return s, err
	}
	if s.Background, err = core.ParseColor(n.Bg); err != nil {
		return s, err
	}
	for _, name := range n.Attrs {
		a, err := core.ParseAttribute(name)
		if err != nil {
			return s, err
		}
		s.Attributes |= a
	}
	return s, nil
}

// options converts the description to ui.Options. Handlers are bound by
// Mount once the script is loaded.
func (n *Node) options() (ui.Options, error) {
	pos, err := ui.ParsePosition(n.Position)
	if err != nil {
		return ui.Options{}, err
	}
	style, err := n.style()
	if err != nil {
		return ui.Options{}, err
	}
	return ui.Options{
		ID:        n.ID,
		Width:     n.Width,
		Height:    n.Height,
		Position:  pos,
		Left:      n.Left,
		Top:       n.Top,
		Focusable: n.Focusable,
		Focused:   n.Focused,
		Visible:   n.Visible,
		Text:      n.Text,
		Style:     style,
	}, nil
}
