package ui

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/termtree/internal/renderer/core"
)

// Box drawing runes.
const (
	runeHorizontal  = '─'
	runeVertical    = '│'
	runeTopLeft     = '┌'
	runeTopRight    = '┐'
	runeBottomLeft  = '└'
	runeBottomRight = '┘'
)

// paint draws the resolved tree to the backend, if any. Children of a
// scroll box are shifted by its offset and clipped to its viewport.
func (r *Renderer) paint() {
	if r.backend == nil {
		return
	}
	r.backend.Clear()
	screen := core.Rect{Width: r.width, Height: r.height}
	r.paintNode(r.root, 0, 0, screen)
	r.backend.Show()
}

func (r *Renderer) paintNode(n *Node, dx, dy int, clip core.Rect) {
	if !n.visible {
		return
	}

	rect := n.rect.Translate(dx, dy)
	if !rect.Intersect(clip).IsEmpty() {
		style := n.style.cellStyle()
		if n.focused {
			style.Attributes |= core.AttrBold
		}
		if !style.Background.IsDefault() {
			r.backend.Fill(rect.Intersect(clip), core.NewStyledCell(' ', style))
		}
		if n.hasBorder() {
			r.paintBorder(rect, clip, style)
		}
		if n.text != "" {
			content := n.contentRect().Translate(dx, dy)
			r.paintText(n.text, content, clip.Intersect(content), style)
		}
	}

	childClip := clip
	if n.kind == KindScrollBox {
		childClip = clip.Intersect(n.ViewportRect().Translate(dx, dy))
		dx -= n.scroll.x
		dy -= n.scroll.y
	}
	for _, c := range n.children {
		r.paintNode(c, dx, dy, childClip)
	}
}

func (r *Renderer) setClipped(x, y int, ch rune, style core.Style, clip core.Rect) {
	if clip.Contains(x, y) {
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
	}
}

func (r *Renderer) paintBorder(rect, clip core.Rect, style core.Style) {
	if rect.Width < 2 || rect.Height < 2 {
		return
	}
	right, bottom := rect.Right()-1, rect.Bottom()-1
	for x := rect.X + 1; x < right; x++ {
		r.setClipped(x, rect.Y, runeHorizontal, style, clip)
		r.setClipped(x, bottom, runeHorizontal, style, clip)
	}
	for y := rect.Y + 1; y < bottom; y++ {
		r.setClipped(rect.X, y, runeVertical, style, clip)
		r.setClipped(right, y, runeVertical, style, clip)
	}
	r.setClipped(rect.X, rect.Y, runeTopLeft, style, clip)
	r.setClipped(right, rect.Y, runeTopRight, style, clip)
	r.setClipped(rect.X, bottom, runeBottomLeft, style, clip)
	r.setClipped(right, bottom, runeBottomRight, style, clip)
}

// paintText draws one grapheme cluster per cell run, truncating each line
// at the content edge.
func (r *Renderer) paintText(text string, content, clip core.Rect, style core.Style) {
	for i, line := range textLines(text) {
		y := content.Y + i
		if y >= content.Bottom() {
			return
		}
		x := content.X
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			w := g.Width()
			if w == 0 {
				continue
			}
			if x+w > content.Right() {
				break
			}
			runes := g.Runes()
			r.setClipped(x, y, runes[0], style, clip)
			x += w
		}
	}
}
