package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// ButtonVisual is implemented by styles capable of drawing a button.
// pressed indicates the mouse button is currently down; hovered indicates the
// cursor is over the control.
type ButtonVisual interface {
	Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool)
}

// ButtonStyle describes rectangular button visuals.
type ButtonStyle struct {
	Fill   color.Color
	Border color.Color
}

func (s ButtonStyle) Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool) {
	border := s.Border
	if hovered {
		border = colHighlight
	}
	drawButton(dst, r, s.Fill, border, pressed)
}

var (
	defaultButtonStyle = ButtonStyle{Fill: colButton, Border: colButtonBorder}
	playButtonStyle    = ButtonStyle{Fill: colPlayButton, Border: colButtonBorder}
	stopButtonStyle    = ButtonStyle{Fill: colStopButton, Border: colButtonBorder}
)

// SlotStyle styles one timeline slot.
type SlotStyle struct {
	Off       color.Color
	Highlight color.Color
	Border    color.Color
}

// Draw renders a slot. fill is the block color, or nil for an empty slot.
func (s SlotStyle) Draw(dst *ebiten.Image, r image.Rectangle, fill color.Color, lit bool) {
	if fill == nil {
		fill = s.Off
	}
	drawRect(dst, r, fill, true)
	if lit {
		drawRect(dst, insetRect(r, 2), fadeColor(colHighlight, 0.45), true)
		drawRect(dst, r, s.Highlight, false)
		return
	}
	drawRect(dst, r, s.Border, false)
}

var defaultSlotStyle = SlotStyle{Off: colSlotOff, Highlight: colHighlight, Border: colSlotBorder}
