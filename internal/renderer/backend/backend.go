// Package backend provides terminal backend abstraction for the renderer.
package backend

import "github.com/dshills/termtree/internal/renderer/core"

// Backend defines the drawing surface the ui renderer paints into.
// Implementations handle actual output to the terminal or to memory.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current surface dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the surface are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at the given position.
	// Returns an empty cell for positions outside the surface.
	GetCell(x, y int) core.Cell

	// Fill fills a rectangular region with the given cell.
	Fill(rect core.Rect, cell core.Cell)

	// Clear clears the entire surface with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()
}

// NullBackend is an in-memory backend for tests and headless rendering.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	shows         int
	shutdown      bool
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{width: width, height: height}
}

func (b *NullBackend) Init() error {
	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Shutdown() { b.shutdown = true }

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.Rect, cell core.Cell) {
	for y := rect.Y; y < rect.Bottom() && y < b.height; y++ {
		for x := rect.X; x < rect.Right() && x < b.width; x++ {
			if x >= 0 && y >= 0 {
				b.cells[y][x] = cell
			}
		}
	}
}

func (b *NullBackend) Clear() {
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() { b.shows++ }

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int { return b.shows }

// IsShutdown reports whether Shutdown was called.
func (b *NullBackend) IsShutdown() bool { return b.shutdown }

// Row returns row y as a string, for assertions in tests.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.Rune == 0 {
			continue
		}
		runes = append(runes, c.Rune)
	}
	return string(runes)
}

// Resize changes the surface dimensions and clears it.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.allocate()
}
