package beat

import (
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
)

// StepPlan is everything one step does, decided before any side effect.
type StepPlan struct {
	Step int
	// Tick is set on beat boundaries.
	Tick bool
	// Sound is set when a block starts on this step.
	Sound bool
	Block model.Block
	// Highlight lists the slots lit for this step.
	Highlight []int
}

// IsBeat reports whether step opens a beat.
func IsBeat(step int) bool { return step%model.GroupSize == 0 }

// Plan decides the audio and highlight actions for step.
func Plan(blocks []model.Block, step int) StepPlan {
	p := StepPlan{Step: step, Tick: IsBeat(step)}
	for _, b := range blocks {
		if b.Start == step {
			p.Sound = true
			p.Block = b
			p.Highlight = span(b.Start, b.Length)
			return p
		}
	}
	occ := model.OccupancyOf(blocks)
	if occ[step] {
		// inside a block that started earlier
		return p
	}
	switch {
	case model.GroupEmpty(occ, step):
		p.Highlight = span(model.GroupStart(step), model.GroupSize)
	case model.PairEmpty(occ, step) && step%model.PairSize == 0:
		p.Highlight = span(step, model.PairSize)
	default:
		p.Highlight = []int{step}
	}
	return p
}

func span(start, n int) []int {
	out := make([]int, 0, n)
	for s := start; s < start+n && s < model.Slots; s++ {
		out = append(out, s)
	}
	return out
}
