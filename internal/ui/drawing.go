package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
)

// drawRect draws a rectangle. It is defined as a variable so tests can
// override it to capture draw calls.
var drawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
	}
}

// drawButton renders a filled rectangle with a border. It can be overridden in tests.
var drawButton = func(dst *ebiten.Image, r image.Rectangle, fill, border color.Color, pressed bool) {
	fc := fill
	if pressed {
		if c, ok := fill.(color.RGBA); ok {
			fc = color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
		}
	}
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fc, false)
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, border, false)
}

// drawGlyph draws g inside r, left aligned so a glyph spanning several slots
// starts over its first slot.
var drawGlyph = func(dst *ebiten.Image, r image.Rectangle, g notation.Glyph, ink color.Color) {
	cx := float32(r.Min.X) + float32(r.Dx())/2
	cy := float32(r.Min.Y) + float32(r.Dy())*0.65
	head := float32(r.Dy()) / 8
	stemTop := float32(r.Min.Y) + float32(r.Dy())*0.15
	switch g {
	case notation.WholeNote:
		vector.StrokeCircle(dst, cx, cy, head*1.2, 2, ink, true)
	case notation.QuarterNote:
		vector.DrawFilledCircle(dst, cx, cy, head, ink, true)
		vector.StrokeLine(dst, cx+head, cy, cx+head, stemTop, 2, ink, true)
	case notation.EighthNote:
		vector.DrawFilledCircle(dst, cx, cy, head, ink, true)
		vector.StrokeLine(dst, cx+head, cy, cx+head, stemTop, 2, ink, true)
		vector.StrokeLine(dst, cx+head, stemTop, cx+head*3, stemTop+head*2, 2, ink, true)
	case notation.WholeRest:
		vector.DrawFilledRect(dst, cx-head*1.5, cy-head*2, head*3, head, ink, false)
		vector.StrokeLine(dst, cx-head*2.5, cy-head*2, cx+head*2.5, cy-head*2, 1, ink, false)
	case notation.HalfRest:
		vector.DrawFilledRect(dst, cx-head*1.5, cy-head, head*3, head, ink, false)
		vector.StrokeLine(dst, cx-head*2.5, cy, cx+head*2.5, cy, 1, ink, false)
	case notation.EighthRest:
		vector.DrawFilledCircle(dst, cx-head/2, cy-head*2, head/2, ink, true)
		vector.StrokeLine(dst, cx-head/2, cy-head*1.5, cx+head, cy-head*2, 2, ink, true)
		vector.StrokeLine(dst, cx+head, cy-head*2, cx, cy+head, 2, ink, true)
	}
}
