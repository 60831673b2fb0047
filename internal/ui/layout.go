package ui

import (
	"image"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
)

const (
	headerHeight = 40
	margin       = 16
	slotPad      = 2
)

// GridLayout splits a rectangle into rows and columns using fractional weights.
type GridLayout struct {
	bounds     image.Rectangle
	colWeights []float64
	rowWeights []float64
	colPos     []int
	rowPos     []int
}

func NewGridLayout(b image.Rectangle, cols, rows []float64) *GridLayout {
	g := &GridLayout{bounds: b, colWeights: cols, rowWeights: rows}
	g.recalc()
	return g
}

func positions(from, size int, weights []float64) []int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	pos := make([]int, len(weights)+1)
	x := from
	for i, w := range weights {
		pos[i] = x
		x += int(float64(size) * (w / total))
	}
	pos[len(weights)] = from + size
	return pos
}

func (g *GridLayout) recalc() {
	g.colPos = positions(g.bounds.Min.X, g.bounds.Dx(), g.colWeights)
	g.rowPos = positions(g.bounds.Min.Y, g.bounds.Dy(), g.rowWeights)
}

// Cell returns the rectangle for the given cell.
func (g *GridLayout) Cell(col, row int) image.Rectangle {
	return image.Rect(g.colPos[col], g.rowPos[row], g.colPos[col+1], g.rowPos[row+1])
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// palettePlacement gives each swatch as many columns as its block length.
var palettePlacement = []struct {
	Color model.Color
	Col   int
}{
	{model.Green, 0},
	{model.Orange, 6},
	{model.Purple, 10},
}

// Layout holds the screen rectangles of everything below the header.
type Layout struct {
	Bounds   image.Rectangle
	Header   image.Rectangle
	Palette  []PaletteSwatch
	Notation [model.Slots]image.Rectangle
	Slots    [model.Slots]image.Rectangle
	Labels   [model.Slots]image.Rectangle
}

type PaletteSwatch struct {
	Color model.Color
	Rect  image.Rectangle
}

const (
	rowPalette = iota
	rowGap
	rowNotation
	rowSlots
	rowLabels
)

// NewLayout lays the trainer out in a w×h window.
func NewLayout(w, h int) Layout {
	l := Layout{
		Bounds: image.Rect(0, 0, w, h),
		Header: image.Rect(0, 0, w, headerHeight),
	}
	body := image.Rect(margin, headerHeight+margin, w-margin, h-margin)
	if body.Dx() <= 0 || body.Dy() <= 0 {
		return l
	}
	grid := NewGridLayout(body, equalWeights(model.Slots), []float64{1.2, 0.3, 2, 2, 0.6})
	for i := 0; i < model.Slots; i++ {
		l.Notation[i] = grid.Cell(i, rowNotation)
		l.Slots[i] = insetRect(grid.Cell(i, rowSlots), slotPad)
		l.Labels[i] = grid.Cell(i, rowLabels)
	}
	for _, p := range palettePlacement {
		r := grid.Cell(p.Col, rowPalette)
		last := grid.Cell(p.Col+model.PaletteLength(p.Color)-1, rowPalette)
		l.Palette = append(l.Palette, PaletteSwatch{
			Color: p.Color,
			Rect:  insetRect(r.Union(last), slotPad*2),
		})
	}
	return l
}

// SlotAt maps a screen point to a timeline slot. Clicks on the notation
// row above a slot count as clicks on that slot.
func (l Layout) SlotAt(x, y int) (int, bool) {
	for i := 0; i < model.Slots; i++ {
		if pt(x, y, l.Slots[i]) || pt(x, y, l.Notation[i]) {
			return i, true
		}
	}
	return -1, false
}

// PaletteAt maps a screen point to a palette swatch.
func (l Layout) PaletteAt(x, y int) (model.Color, bool) {
	for _, s := range l.Palette {
		if pt(x, y, s.Rect) {
			return s.Color, true
		}
	}
	return model.ColorNone, false
}

// GlyphRect is the area a glyph starting at slot covers on the notation row.
func (l Layout) GlyphRect(slot, span int) image.Rectangle {
	return spanRect(l.Notation[:], slot, span)
}
