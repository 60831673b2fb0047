package ui

import (
	"image/color"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
)

var (
	colBG        = color.RGBA{20, 20, 30, 255}
	colHeaderBG  = color.RGBA{15, 15, 15, 255}
	colGridLine  = color.RGBA{60, 60, 60, 255}
	colBeatLine  = color.RGBA{120, 120, 120, 255}
	colInk       = color.RGBA{235, 235, 235, 255}
	colRestInk   = color.RGBA{150, 150, 160, 255}
	colError     = color.RGBA{230, 50, 50, 255}
	colHighlight = color.RGBA{255, 255, 0, 255}

	colButton       = color.RGBA{40, 40, 40, 255}
	colButtonBorder = color.RGBA{240, 240, 240, 255}
	colPlayButton   = color.RGBA{40, 200, 40, 255}
	colStopButton   = color.RGBA{200, 40, 40, 255}

	colSlotOff    = color.RGBA{30, 30, 30, 255}
	colSlotBorder = color.RGBA{80, 80, 80, 255}
)

var blockColors = map[model.Color]color.RGBA{
	model.Green:  {60, 190, 90, 255},
	model.Orange: {240, 150, 40, 255},
	model.Purple: {150, 80, 210, 255},
}

func blockColor(c model.Color) color.RGBA {
	if col, ok := blockColors[c]; ok {
		return col
	}
	return colSlotOff
}

// fadeColor scales c's alpha by a in [0,1].
func fadeColor(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
