package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
	"github.com/ingyamilmolinar/rhythmgrid/core/placement"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

type EventKind int

const (
	EventStep EventKind = iota
	EventChange
	EventReject
	EventPlayback
)

// Event notifies adapters that something worth redrawing happened.
type Event struct {
	Kind    EventKind
	Step    int
	Reason  placement.Reason
	Playing bool
}

// Options seeds the session's playback settings. A zero BPM means
// beat.DefaultBPM.
type Options struct {
	BPM    int
	Mode   beat.SoundMode
	Pitch  string
	Volume float64
}

func DefaultOptions() Options {
	return Options{BPM: beat.DefaultBPM, Mode: beat.Drum, Pitch: beat.DefaultPitch, Volume: 1}
}

// Snapshot is a consistent copy of the session for display.
type Snapshot struct {
	Blocks    []model.Block              `json:"blocks"`
	Cells     [model.Slots]notation.Cell `json:"cells"`
	Selection placement.Selection        `json:"selection"`
	Playback  beat.State                 `json:"playback"`
	Volume    float64                    `json:"volume"`
}

// Engine is one trainer session: the timeline, the placement rules, the
// glyph row and the playback scheduler wired to an audio device and a
// surface. Input adapters talk only to Engine.
type Engine struct {
	mu     sync.Mutex
	tl     *model.Timeline
	place  *placement.Engine
	cells  [model.Slots]notation.Cell
	volume float64

	sched   *beat.Scheduler
	audio   beat.Audio
	surface Surface
	logger  *game_log.Logger

	Events chan Event
}

// New builds a stopped session. audio and surface may be nil.
func New(opts Options, audio beat.Audio, surface Surface, logger *game_log.Logger) *Engine {
	tl := model.NewTimeline(logger)
	e := &Engine{
		tl:      tl,
		place:   placement.New(tl, logger),
		audio:   audio,
		surface: surface,
		logger:  logger,
		Events:  make(chan Event, 64),
	}
	e.place.OnChange = e.renderLocked
	e.place.OnReject = func(r placement.Reason) {
		if e.surface != nil {
			e.surface.TriggerRejectionShake()
		}
		e.emit(Event{Kind: EventReject, Reason: r})
	}

	var hl beat.Highlighter
	if surface != nil {
		hl = surface
	}
	e.sched = beat.NewScheduler(e.blocks, audio, hl, logger)
	e.sched.OnTick = func(p beat.StepPlan) {
		e.emit(Event{Kind: EventStep, Step: p.Step, Playing: true})
	}

	if opts.BPM == 0 {
		opts.BPM = beat.DefaultBPM
	}
	e.sched.Retune(opts.BPM)
	e.sched.SetSoundMode(opts.Mode)
	if opts.Pitch != "" {
		e.sched.SetPitch(opts.Pitch)
	}
	e.SetVolume(opts.Volume)

	e.mu.Lock()
	e.renderLocked()
	e.mu.Unlock()
	return e
}

func (e *Engine) emit(ev Event) {
	select {
	case e.Events <- ev:
	default:
	}
}

func (e *Engine) blocks() []model.Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tl.Blocks()
}

// renderLocked recomputes the glyph row and pushes it to the surface.
func (e *Engine) renderLocked() {
	e.cells = notation.Render(e.tl.Blocks())
	if e.surface != nil {
		for i, c := range e.cells {
			e.surface.SetGlyph(i, c.Glyph)
		}
	}
	e.emit(Event{Kind: EventChange})
}

// Scheduler exposes the playback scheduler, mostly for tests.
func (e *Engine) Scheduler() *beat.Scheduler { return e.sched }

// SelectBlockType makes a palette entry pending.
func (e *Engine) SelectBlockType(length int, color model.Color) {
	e.mu.Lock()
	e.place.Select(length, color)
	e.mu.Unlock()
	e.emit(Event{Kind: EventChange})
}

// SelectPalette selects a color with the length the palette pairs it with.
func (e *Engine) SelectPalette(color model.Color) {
	e.SelectBlockType(model.PaletteLength(color), color)
}

func (e *Engine) Deselect() {
	e.mu.Lock()
	e.place.Deselect()
	e.mu.Unlock()
	e.emit(Event{Kind: EventChange})
}

// ClickSlot places the pending selection at slot, or removes the block under
// slot when nothing is selected.
func (e *Engine) ClickSlot(slot int) placement.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.place.Click(slot)
}

// ClickOutside drops the pending selection.
func (e *Engine) ClickOutside() {
	e.Deselect()
}

// RemoveBlock removes a block by ID regardless of the selection.
func (e *Engine) RemoveBlock(id uuid.UUID) (model.Block, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.tl.RemoveBlock(id)
	if ok {
		e.logger.Infof("[ENGINE] Removed block %v by id", b)
		e.renderLocked()
	}
	return b, ok
}

// Clear removes every block.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.place.Clear()
}

func (e *Engine) Start() {
	if e.audio != nil {
		if r, ok := e.audio.(interface{ Resume() }); ok {
			r.Resume()
		}
	}
	e.sched.Start()
	e.emit(Event{Kind: EventPlayback, Playing: true})
}

func (e *Engine) Stop() {
	e.sched.Stop()
	e.emit(Event{Kind: EventPlayback, Playing: false})
}

// TogglePlay starts or stops playback and reports the new state.
func (e *Engine) TogglePlay() bool {
	if e.sched.Playing() {
		e.Stop()
		return false
	}
	e.Start()
	return true
}

// SetTempo clamps and applies bpm, returning the value in effect.
func (e *Engine) SetTempo(bpm int) int {
	bpm = e.sched.Retune(bpm)
	e.emit(Event{Kind: EventChange})
	return bpm
}

func (e *Engine) SetSoundMode(m beat.SoundMode) {
	e.sched.SetSoundMode(m)
	e.emit(Event{Kind: EventChange})
}

func (e *Engine) SetPitch(note string) {
	e.sched.SetPitch(note)
	e.emit(Event{Kind: EventChange})
}

// SetVolume clamps v to [0,1] and forwards it to the audio device.
func (e *Engine) SetVolume(v float64) float64 {
	v = utils.Clamp(v, 0, 1)
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
	if e.audio != nil {
		e.audio.SetMasterVolume(v)
	}
	return v
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	snap := Snapshot{
		Blocks:    e.tl.Blocks(),
		Cells:     e.cells,
		Selection: e.place.Selection(),
		Volume:    e.volume,
	}
	e.mu.Unlock()
	snap.Playback = e.sched.State()
	return snap
}

// Close stops playback.
func (e *Engine) Close() {
	e.sched.Stop()
}
