package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termtree/internal/renderer/core"
)

// Terminal paints to a real or simulated tcell screen.
// Input events are exposed raw; decoding mouse masks into press/move/release
// primitives is the job of the mouse package.
type Terminal struct {
	screen  tcell.Screen
	mu      sync.Mutex
	noMouse bool
	started bool
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.started = true
	if !t.noMouse {
		t.screen.EnableMouse(tcell.MouseMotionEvents)
	}
	t.screen.HideCursor()
	return nil
}

// SetMouse turns mouse reporting on or off. Before Init it only records the
// choice.
func (t *Terminal) SetMouse(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.noMouse = !enabled
	if !t.started {
		return
	}
	if enabled {
		t.screen.EnableMouse(tcell.MouseMotionEvents)
	} else {
		t.screen.DisableMouse()
	}
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, toTcell(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, _, st, _ := t.screen.GetContent(x, y) //nolint:staticcheck
	return core.Cell{Rune: ch, Width: core.RuneWidth(ch), Style: fromTcell(st)}
}

func (t *Terminal) Fill(rect core.Rect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := toTcell(cell.Style)
	w, h := t.screen.Size()
	area := rect.Intersect(core.Rect{Width: w, Height: h})
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, st)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// PollEvent waits for and returns the next raw terminal event.
// Returns nil once the screen has been finalized.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Interrupt wakes a goroutine blocked in PollEvent with data.
func (t *Terminal) Interrupt(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data)) // best-effort; queue may be full
}

// attrMap pairs each cell attribute with its tcell bit.
var attrMap = [...]struct {
	ours   core.Attribute
	theirs tcell.AttrMask
}{
	{core.AttrBold, tcell.AttrBold},
	{core.AttrDim, tcell.AttrDim},
	{core.AttrItalic, tcell.AttrItalic},
	{core.AttrUnderline, tcell.AttrUnderline},
	{core.AttrBlink, tcell.AttrBlink},
	{core.AttrReverse, tcell.AttrReverse},
	{core.AttrStrikethrough, tcell.AttrStrikeThrough},
}

func toTcell(s core.Style) tcell.Style {
	st := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		st = st.Foreground(toTcellColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		st = st.Background(toTcellColor(s.Background))
	}
	var mask tcell.AttrMask
	for _, a := range attrMap {
		if s.Attributes.Has(a.ours) {
			mask |= a.theirs
		}
	}
	return st.Attributes(mask)
}

func toTcellColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fromTcell(ts tcell.Style) core.Style {
	fg, bg, mask := ts.Decompose()
	s := core.Style{Foreground: fromTcellColor(fg), Background: fromTcellColor(bg)}
	for _, a := range attrMap {
		if mask&a.theirs != 0 {
			s.Attributes |= a.ours
		}
	}
	return s
}

func fromTcellColor(tc tcell.Color) core.Color {
	switch {
	case tc == tcell.ColorDefault:
		return core.ColorDefault
	case tc >= tcell.ColorValid && tc < tcell.ColorIsRGB:
		return core.ColorFromIndex(uint8(tc - tcell.ColorValid))
	}
	r, g, b := tc.RGB()
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}
