package ui

import (
	"testing"

	"github.com/dshills/termtree/internal/renderer/backend"
	"github.com/dshills/termtree/internal/renderer/core"
)

func newPaintRenderer(t *testing.T, w, h int) (*Renderer, *backend.NullBackend) {
	t.Helper()
	nb := backend.NewNullBackend(w, h)
	r, err := NewRenderer(DefaultConfig(), WithBackend(nb))
	if err != nil {
		t.Fatalf("NewRenderer() failed: %v", err)
	}
	return r, nb
}

func TestPaintBorderAndText(t *testing.T) {
	r, nb := newPaintRenderer(t, 12, 4)
	opts := absBox("box", 0, 0, 6, 3)
	opts.Style = Style{Border: true}
	box := mustNode(t, r, KindBox, opts)
	mustAdd(t, r.Root(), box)
	mustAdd(t, box, mustNode(t, r, KindText, Options{Text: "ab"}))
	mustSettle(t, r)

	want := []string{
		"┌────┐      ",
		"│ab  │      ",
		"└────┘      ",
		"            ",
	}
	for y, line := range want {
		if got := nb.Row(y); got != line {
			t.Errorf("row %d = %q, want %q", y, got, line)
		}
	}
	if nb.Shows() != 1 {
		t.Errorf("Shows() = %d, want 1", nb.Shows())
	}
}

func TestPaintTruncatesText(t *testing.T) {
	r, nb := newPaintRenderer(t, 8, 2)
	label := mustNode(t, r, KindText, Options{Position: PositionAbsolute, Left: 1, Width: 3, Text: "abcdef"})
	mustAdd(t, r.Root(), label)
	mustSettle(t, r)

	if got := nb.Row(0); got != " abc    " {
		t.Errorf("row 0 = %q", got)
	}
}

func TestPaintScrollBoxClipsAndShifts(t *testing.T) {
	r, nb := newPaintRenderer(t, 5, 3)
	sb := mustNode(t, r, KindScrollBox, absBox("sb", 0, 0, 5, 2))
	mustAdd(t, r.Root(), sb)
	for _, s := range []string{"a", "b", "c"} {
		mustAdd(t, sb, mustNode(t, r, KindText, Options{Text: s}))
	}
	mustSettle(t, r)
	_ = sb.ScrollTo(0, 1)
	mustSettle(t, r)

	want := []string{"b    ", "c    ", "     "}
	for y, line := range want {
		if got := nb.Row(y); got != line {
			t.Errorf("row %d = %q, want %q", y, got, line)
		}
	}
}

func TestPaintHiddenAndBackground(t *testing.T) {
	r, nb := newPaintRenderer(t, 4, 2)
	red := core.ColorFromRGB(255, 0, 0)
	filled := mustNode(t, r, KindBox, Options{Height: 1, Style: Style{Background: red}})
	hidden := mustNode(t, r, KindText, Options{Text: "zz", Visible: Bool(false)})
	mustAdd(t, r.Root(), filled)
	mustAdd(t, r.Root(), hidden)
	mustSettle(t, r)

	if c := nb.GetCell(3, 0); !c.Style.Background.Equals(red) {
		t.Errorf("background = %v, want red", c.Style.Background)
	}
	if got := nb.Row(1); got != "    " {
		t.Errorf("hidden text painted: %q", got)
	}
}

func TestPaintFocusedIsBold(t *testing.T) {
	r, nb := newPaintRenderer(t, 6, 3)
	opts := absBox("box", 0, 0, 6, 3)
	opts.Focusable = true
	opts.Style = Style{Border: true}
	box := mustNode(t, r, KindBox, opts)
	mustAdd(t, r.Root(), box)
	mustSettle(t, r)
	if nb.GetCell(0, 0).Style.Attributes.Has(core.AttrBold) {
		t.Fatal("unfocused border should not be bold")
	}

	_ = box.Focus()
	mustSettle(t, r)
	if !nb.GetCell(0, 0).Style.Attributes.Has(core.AttrBold) {
		t.Error("focused border should be bold")
	}
}

func TestZeroStyleUsesTerminalDefaults(t *testing.T) {
	r, nb := newPaintRenderer(t, 4, 1)
	box := mustNode(t, r, KindBox, Options{Height: 1})
	mustAdd(t, r.Root(), box)
	mustSettle(t, r)

	if !box.Style().Background.IsDefault() || !box.Style().Foreground.IsDefault() {
		t.Errorf("style = %+v, want default colors", box.Style())
	}
	if c := nb.GetCell(0, 0); !c.Style.Background.IsDefault() {
		t.Errorf("background = %v, want default", c.Style.Background)
	}
}
