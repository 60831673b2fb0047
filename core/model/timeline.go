package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/google/uuid"

	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

const (
	// Slots is the number of sixteenth-note positions in the measure.
	Slots = 16
	// GroupSize is the number of slots in one beat.
	GroupSize = 4
	// PairSize is the number of slots in one eighth.
	PairSize = 2
)

var (
	ErrBounds  = errors.New("block out of bounds")
	ErrOverlap = errors.New("block overlaps an existing block")
)

type Color int

const (
	ColorNone Color = iota
	Green
	Orange
	Purple
)

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Orange:
		return "orange"
	case Purple:
		return "purple"
	default:
		return "none"
	}
}

// ParseColor maps a color name to a Color; unknown names yield ColorNone.
func ParseColor(s string) Color {
	switch s {
	case "green":
		return Green
	case "orange":
		return Orange
	case "purple":
		return Purple
	default:
		return ColorNone
	}
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	*c = ParseColor(string(b))
	if *c == ColorNone && string(b) != "none" && len(b) > 0 {
		return fault.New(fmt.Sprintf("unknown color %q", b), ftag.With(ftag.InvalidArgument))
	}
	return nil
}

// Lengths are the selectable block durations in slots.
var Lengths = []int{1, 2, 4}

// PaletteLength returns the block length the palette pairs with a color.
func PaletteLength(c Color) int {
	switch c {
	case Green:
		return 4
	case Orange:
		return 2
	case Purple:
		return 1
	default:
		return 0
	}
}

type Block struct {
	ID     uuid.UUID `json:"id"`
	Start  int       `json:"start"`
	Length int       `json:"length"`
	Color  Color     `json:"color"`
}

// End is one past the last slot covered.
func (b Block) End() int { return b.Start + b.Length }

func (b Block) Covers(slot int) bool { return slot >= b.Start && slot < b.End() }

func (b Block) String() string {
	return fmt.Sprintf("%s[%d,%d)", b.Color, b.Start, b.End())
}

// Timeline owns the placed blocks of one measure. The slot index is a
// projection of the blocks kept in sync on every mutation.
type Timeline struct {
	blocks []Block
	slots  [Slots]int // index into blocks, -1 when empty
	logger *game_log.Logger
}

func NewTimeline(logger *game_log.Logger) *Timeline {
	t := &Timeline{logger: logger}
	t.reindex()
	return t
}

func (t *Timeline) reindex() {
	for i := range t.slots {
		t.slots[i] = -1
	}
	for idx, b := range t.blocks {
		for s := b.Start; s < b.End(); s++ {
			t.slots[s] = idx
		}
	}
}

// AddBlock inserts b if it is in bounds and does not overlap. A missing ID
// is generated.
func (t *Timeline) AddBlock(b Block) (Block, error) {
	if b.Start < 0 || b.Start >= Slots || !utils.Contains(Lengths, b.Length) || b.End() > Slots {
		t.logger.Errorf("[TIMELINE] Rejected out of bounds block %v", b)
		return Block{}, fault.Wrap(ErrBounds,
			fmsg.With(fmt.Sprintf("add block %v", b)),
			ftag.With(ftag.InvalidArgument))
	}
	for s := b.Start; s < b.End(); s++ {
		if t.slots[s] >= 0 {
			t.logger.Errorf("[TIMELINE] Rejected overlapping block %v (slot %d taken by %v)", b, s, t.blocks[t.slots[s]])
			return Block{}, fault.Wrap(ErrOverlap,
				fmsg.With(fmt.Sprintf("add block %v", b)),
				ftag.With(ftag.AlreadyExists))
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	t.blocks = append(t.blocks, b)
	t.reindex()
	t.logger.Debugf("[TIMELINE] Added block %v", b)
	return b, nil
}

// RemoveBlockAt removes the whole block covering slot. It reports false when
// the slot is empty.
func (t *Timeline) RemoveBlockAt(slot int) (Block, bool) {
	if slot < 0 || slot >= Slots || t.slots[slot] < 0 {
		return Block{}, false
	}
	return t.removeIndex(t.slots[slot]), true
}

// RemoveBlock removes the block with the given ID.
func (t *Timeline) RemoveBlock(id uuid.UUID) (Block, bool) {
	for idx, b := range t.blocks {
		if b.ID == id {
			return t.removeIndex(idx), true
		}
	}
	return Block{}, false
}

func (t *Timeline) removeIndex(idx int) Block {
	b := t.blocks[idx]
	t.blocks = append(t.blocks[:idx], t.blocks[idx+1:]...)
	t.reindex()
	t.logger.Debugf("[TIMELINE] Removed block %v", b)
	return b
}

func (t *Timeline) Clear() {
	t.blocks = nil
	t.reindex()
	t.logger.Debugf("[TIMELINE] Cleared")
}

func (t *Timeline) BlockCovering(slot int) (Block, bool) {
	if slot < 0 || slot >= Slots || t.slots[slot] < 0 {
		return Block{}, false
	}
	return t.blocks[t.slots[slot]], true
}

// BlockStartingAt returns the block whose first slot is slot.
func (t *Timeline) BlockStartingAt(slot int) (Block, bool) {
	b, ok := t.BlockCovering(slot)
	if !ok || b.Start != slot {
		return Block{}, false
	}
	return b, true
}

func (t *Timeline) IsOccupied(slot int) bool {
	return slot >= 0 && slot < Slots && t.slots[slot] >= 0
}

// Blocks returns a copy of the placed blocks ordered by start.
func (t *Timeline) Blocks() []Block {
	out := make([]Block, len(t.blocks))
	copy(out, t.blocks)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (t *Timeline) Len() int { return len(t.blocks) }

func (t *Timeline) Occupancy() [Slots]bool {
	var occ [Slots]bool
	for i, idx := range t.slots {
		occ[i] = idx >= 0
	}
	return occ
}

// GroupStart returns the first slot of the beat containing slot.
func GroupStart(slot int) int { return slot / GroupSize * GroupSize }

// PairStart returns the even slot that opens the pair containing slot.
func PairStart(slot int) int { return slot / PairSize * PairSize }

// OccupancyOf projects blocks onto the slot grid. Blocks are assumed valid.
func OccupancyOf(blocks []Block) [Slots]bool {
	var occ [Slots]bool
	for _, b := range blocks {
		for s := b.Start; s < b.End() && s < Slots; s++ {
			if s >= 0 {
				occ[s] = true
			}
		}
	}
	return occ
}

// GroupEmpty reports whether every slot of slot's beat is free.
func GroupEmpty(occ [Slots]bool, slot int) bool {
	g := GroupStart(slot)
	for s := g; s < g+GroupSize; s++ {
		if occ[s] {
			return false
		}
	}
	return true
}

// PairEmpty reports whether both slots of slot's pair are free.
func PairEmpty(occ [Slots]bool, slot int) bool {
	p := PairStart(slot)
	return !occ[p] && !occ[p+1]
}
