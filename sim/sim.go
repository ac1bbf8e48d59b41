// Package sim renders a shared display onto a tcell screen, one pixel per
// terminal cell. It stands in for real hardware in the demo and in tests.
package sim

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/splitscreen/core"
)

// Display adapts a tcell screen to the display.Driver contract.
// Elements are tcell colors; each flushed pixel becomes a cell background.
type Display struct {
	screen tcell.Screen
	size   core.Size
}

// New wraps an initialized tcell screen. The screen size is captured once;
// resizing the terminal mid-run is not supported.
func New(screen tcell.Screen) *Display {
	w, h := screen.Size()
	return &Display{screen: screen, size: core.Size{Width: w, Height: h}}
}

// NewWithSize wraps an initialized screen but overrides the reported size,
// useful when the shared region should cover only part of the terminal
func NewWithSize(screen tcell.Screen, size core.Size) *Display {
	return &Display{screen: screen, size: size}
}

// Size returns the parent screen dimensions in pixels (terminal cells)
func (d *Display) Size() core.Size {
	return d.size
}

// MapColor stores colors as-is
func (d *Display) MapColor(c tcell.Color) tcell.Color {
	return c
}

// BufferIndex lays elements out row-major
func (d *Display) BufferIndex(p core.Point, size core.Size) int {
	return p.Y*size.Width + p.X
}

// FlushChunk paints one decoded strip onto the screen. Cells are buffered
// by tcell; call Show to present a completed frame.
func (d *Display) FlushChunk(chunk []tcell.Color, area core.Area) error {
	for y := 0; y < area.Height; y++ {
		for x := 0; x < area.Width; x++ {
			style := tcell.StyleDefault.Background(chunk[y*area.Width+x])
			d.screen.SetContent(area.X+x, area.Y+y, ' ', nil, style)
		}
	}
	return nil
}

// Show presents everything flushed since the last call
func (d *Display) Show() {
	d.screen.Show()
}
