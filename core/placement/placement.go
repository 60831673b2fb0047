// Package placement validates and commits blocks onto a timeline and owns
// the pending palette selection.
package placement

import (
	"errors"
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

var (
	ErrOffbeat     = errors.New("long block on an off-beat slot")
	ErrOutOfBounds = errors.New("block does not fit in the measure")
	ErrOverlap     = errors.New("block overlaps a placed block")
)

type Status int

const (
	NoOp Status = iota
	Placed
	Rejected
	Removed
)

func (s Status) String() string {
	switch s {
	case Placed:
		return "placed"
	case Rejected:
		return "rejected"
	case Removed:
		return "removed"
	default:
		return "noop"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Reason int

const (
	ReasonNone Reason = iota
	OffbeatViolation
	OutOfBounds
	Overlap
)

func (r Reason) String() string {
	switch r {
	case OffbeatViolation:
		return "offbeat_violation"
	case OutOfBounds:
		return "out_of_bounds"
	case Overlap:
		return "overlap"
	default:
		return "none"
	}
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// offbeatSlots are the slots where only single-slot blocks may start.
var offbeatSlots = [model.Slots]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 11: true, 13: true, 15: true,
}

// Result describes the outcome of a placement or removal attempt.
type Result struct {
	Status Status      `json:"status"`
	Reason Reason      `json:"reason,omitempty"`
	Block  model.Block `json:"block"`
}

// Err returns the rejection as an error, or nil when nothing was rejected.
func (r Result) Err() error {
	var base error
	switch r.Reason {
	case OffbeatViolation:
		base = ErrOffbeat
	case OutOfBounds:
		base = ErrOutOfBounds
	case Overlap:
		base = ErrOverlap
	default:
		return nil
	}
	return fault.Wrap(base, ftag.With(ftag.InvalidArgument))
}

// Selection is the palette entry waiting to be placed.
type Selection struct {
	Length int         `json:"length"`
	Color  model.Color `json:"color"`
}

// Active reports whether both a length and a color are pending.
func (s Selection) Active() bool { return s.Length > 0 && s.Color != model.ColorNone }

// Engine applies the placement rules to a timeline. Hooks run synchronously
// after the state change they describe.
type Engine struct {
	tl     *model.Timeline
	sel    Selection
	logger *game_log.Logger

	OnChange func()
	OnReject func(Reason)
}

func New(tl *model.Timeline, logger *game_log.Logger) *Engine {
	return &Engine{tl: tl, logger: logger}
}

func (e *Engine) Timeline() *model.Timeline { return e.tl }

func (e *Engine) Selection() Selection { return e.sel }

// Select makes a palette entry pending.
func (e *Engine) Select(length int, color model.Color) {
	e.sel = Selection{Length: length, Color: color}
	e.logger.Debugf("[PLACE] Selected %s length %d", color, length)
}

func (e *Engine) Deselect() {
	if e.sel.Active() {
		e.logger.Debugf("[PLACE] Deselected %s length %d", e.sel.Color, e.sel.Length)
	}
	e.sel = Selection{}
}

// Check runs the placement rules without touching any state.
func (e *Engine) Check(start, length int) Reason {
	if length == 2 || length == 4 {
		if start >= 0 && start < model.Slots && offbeatSlots[start] {
			return OffbeatViolation
		}
	}
	if !utils.Contains(model.Lengths, length) || start < 0 || start >= model.Slots || start+length > model.Slots {
		return OutOfBounds
	}
	for s := start; s < start+length; s++ {
		if e.tl.IsOccupied(s) {
			return Overlap
		}
	}
	return ReasonNone
}

// AttemptPlace validates and, if legal, commits a block. Without an active
// selection (zero length or no color) it does nothing.
func (e *Engine) AttemptPlace(start, length int, color model.Color) Result {
	if !(Selection{Length: length, Color: color}).Active() {
		return Result{Status: NoOp}
	}
	if reason := e.Check(start, length); reason != ReasonNone {
		e.logger.Debugf("[PLACE] Rejected %s length %d at %d: %s", color, length, start, reason)
		if e.OnReject != nil {
			e.OnReject(reason)
		}
		return Result{Status: Rejected, Reason: reason}
	}
	b, err := e.tl.AddBlock(model.Block{Start: start, Length: length, Color: color})
	if err != nil {
		// Check passed, so the store disagreeing is a bug.
		e.logger.Errorf("[PLACE] %v", fault.Wrap(err, fmsg.With(fmt.Sprintf("commit at %d", start))))
		return Result{Status: Rejected, Reason: reasonFor(err)}
	}
	e.sel = Selection{}
	e.logger.Infof("[PLACE] Placed %v", b)
	if e.OnChange != nil {
		e.OnChange()
	}
	return Result{Status: Placed, Block: b}
}

func reasonFor(err error) Reason {
	if errors.Is(err, model.ErrOverlap) {
		return Overlap
	}
	return OutOfBounds
}

// Place attempts to put the current selection at start.
func (e *Engine) Place(start int) Result {
	return e.AttemptPlace(start, e.sel.Length, e.sel.Color)
}

// AttemptRemove deletes the block covering slot. Removal only happens when no
// selection is pending.
func (e *Engine) AttemptRemove(slot int) Result {
	if e.sel.Active() {
		return Result{Status: NoOp}
	}
	b, ok := e.tl.RemoveBlockAt(slot)
	if !ok {
		return Result{Status: NoOp}
	}
	e.logger.Infof("[PLACE] Removed %v", b)
	if e.OnChange != nil {
		e.OnChange()
	}
	return Result{Status: Removed, Block: b}
}

// Click routes a slot click: place while a selection is pending, remove
// otherwise.
func (e *Engine) Click(slot int) Result {
	if e.sel.Active() {
		return e.Place(slot)
	}
	return e.AttemptRemove(slot)
}

// Clear removes every block. The selection is left alone.
func (e *Engine) Clear() {
	e.tl.Clear()
	e.logger.Infof("[PLACE] Cleared timeline")
	if e.OnChange != nil {
		e.OnChange()
	}
}
