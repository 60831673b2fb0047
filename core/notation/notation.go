// Package notation derives the rhythm glyph row shown above the timeline.
package notation

import (
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
)

type Glyph int

const (
	Blank Glyph = iota
	WholeNote
	QuarterNote
	EighthNote
	WholeRest
	HalfRest
	EighthRest
)

func (g Glyph) String() string {
	switch g {
	case WholeNote:
		return "whole"
	case QuarterNote:
		return "quarter"
	case EighthNote:
		return "eighth"
	case WholeRest:
		return "whole_rest"
	case HalfRest:
		return "half_rest"
	case EighthRest:
		return "eighth_rest"
	default:
		return "blank"
	}
}

func (g Glyph) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// Span is the number of slots the glyph stretches over.
func (g Glyph) Span() int {
	switch g {
	case WholeNote, WholeRest:
		return 4
	case QuarterNote, HalfRest:
		return 2
	case EighthNote, EighthRest:
		return 1
	default:
		return 0
	}
}

// IsRest reports whether the glyph marks silence.
func (g Glyph) IsRest() bool {
	return g == WholeRest || g == HalfRest || g == EighthRest
}

// Cell is one slot of a rendered row.
type Cell struct {
	Glyph Glyph       `json:"glyph"`
	Color model.Color `json:"color"`
	// Primary is set on the first slot of a block.
	Primary bool `json:"primary"`
}

func noteFor(length int) Glyph {
	switch length {
	case 4:
		return WholeNote
	case 2:
		return QuarterNote
	default:
		return EighthNote
	}
}

// Render lays glyphs over the measure in one left-to-right pass. Slots that
// belong to a glyph starting earlier stay Blank.
func Render(blocks []model.Block) [model.Slots]Cell {
	var cells [model.Slots]Cell
	occ := model.OccupancyOf(blocks)
	starts := map[int]model.Block{}
	for _, b := range blocks {
		starts[b.Start] = b
	}
	for _, b := range blocks {
		for s := b.Start; s < b.End() && s < model.Slots; s++ {
			cells[s].Color = b.Color
		}
	}

	for i := 0; i < model.Slots; i++ {
		skip := 0
		if occ[i] {
			if b, ok := starts[i]; ok {
				cells[i].Glyph = noteFor(b.Length)
				cells[i].Primary = true
				skip = b.Length - 1
			}
		} else {
			switch {
			case model.GroupEmpty(occ, i) && i%model.GroupSize == 0:
				cells[i].Glyph = WholeRest
				skip = 3
			case model.PairEmpty(occ, i) && i%model.PairSize == 0:
				cells[i].Glyph = HalfRest
				skip = 1
			case occ[partner(i)]:
				cells[i].Glyph = EighthRest
			}
		}
		i += skip
	}
	return cells
}

func partner(i int) int {
	return model.PairStart(i) + (1 - i%model.PairSize)
}

// RenderGlyphs is Render without the per-slot color detail.
func RenderGlyphs(blocks []model.Block) [model.Slots]Glyph {
	var out [model.Slots]Glyph
	for i, c := range Render(blocks) {
		out[i] = c.Glyph
	}
	return out
}

const assetBase = "https://raw.githubusercontent.com/VisualMusicalMinds/Cartoon_Notation/refs/heads/main/"

var assets = map[Glyph]string{
	Blank:       "Cartoon%20Rhythm0008.png",
	WholeNote:   "Cartoon%20Rhythm0002.png",
	WholeRest:   "Cartoon%20Rhythm0003.png",
	QuarterNote: "Cartoon%20Rhythm0004.png",
	HalfRest:    "Cartoon%20Rhythm0005.png",
	EighthNote:  "Cartoon%20Rhythm0006.png",
	EighthRest:  "Cartoon%20Rhythm0007.png",
}

// Asset returns the URL of the notation image for g.
func Asset(g Glyph) string {
	return assetBase + assets[g]
}

var beatLabels = [model.Slots]string{0: "1", 2: "&", 4: "2", 6: "&", 8: "3", 10: "&", 12: "4", 14: "&"}

// BeatLabel is the counting syllable printed under a slot, if any.
func BeatLabel(slot int) string {
	if slot < 0 || slot >= model.Slots {
		return ""
	}
	return beatLabels[slot]
}

// Symbol is a short text form of g for terminal output.
func Symbol(g Glyph) string {
	switch g {
	case WholeNote:
		return "♩"
	case QuarterNote:
		return "♪"
	case EighthNote:
		return "♬"
	case WholeRest:
		return "𝄽"
	case HalfRest:
		return "𝄾"
	case EighthRest:
		return "𝄿"
	default:
		return "·"
	}
}
