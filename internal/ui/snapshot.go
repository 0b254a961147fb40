package ui

import (
	"github.com/tidwall/sjson"
)

// Snapshot returns the resolved tree as JSON:
//
//	{"width":80,"height":24,"focused":"id","root":{"id":..,"kind":..,
//	 "rect":{"x":..,"y":..,"w":..,"h":..},"children":[...]}}
//
// focused is null when nothing holds focus.
func (r *Renderer) Snapshot() (string, error) {
	const op = "snapshot"
	if err := r.alive(op); err != nil {
		return "", err
	}

	doc := `{}`
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}
	set("width", r.width)
	set("height", r.height)
	set("frames", r.frames)
	if r.focused != nil {
		set("focused", r.focused.id)
	} else {
		set("focused", nil)
	}

	root, nerr := snapshotNode(r.root)
	if err == nil {
		err = nerr
	}
	if err == nil {
		doc, err = sjson.SetRaw(doc, "root", root)
	}
	if err != nil {
		return "", newOpError(op, "", err)
	}
	return doc, nil
}

func snapshotNode(n *Node) (string, error) {
	doc := `{}`
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}
	set("id", n.id)
	set("kind", n.kind.String())
	set("rect.x", n.rect.X)
	set("rect.y", n.rect.Y)
	set("rect.w", n.rect.Width)
	set("rect.h", n.rect.Height)
	if n.position == PositionAbsolute {
		set("position", n.position.String())
	}
	if n.focusable {
		set("focusable", true)
	}
	if n.focused {
		set("focused", true)
	}
	if !n.visible {
		set("visible", false)
	}
	if n.text != "" {
		set("text", n.text)
	}
	if n.kind == KindScrollBox {
		set("scroll.x", n.scroll.x)
		set("scroll.y", n.scroll.y)
		set("scroll.contentW", n.scroll.contentW)
		set("scroll.contentH", n.scroll.contentH)
	}
	if err != nil {
		return "", err
	}

	if len(n.children) == 0 {
		return doc, nil
	}
	if doc, err = sjson.SetRaw(doc, "children", "[]"); err != nil {
		return "", err
	}
	for _, c := range n.children {
		child, err := snapshotNode(c)
		if err != nil {
			return "", err
		}
		if doc, err = sjson.SetRaw(doc, "children.-1", child); err != nil {
			return "", err
		}
	}
	return doc, nil
}
