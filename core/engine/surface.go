package engine

import (
	"sync"
	"time"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
)

// ShakeDuration is how long a rejected placement keeps the grid shaking.
const ShakeDuration = 300 * time.Millisecond

// Surface is the rendering side of the trainer. Methods may be called from
// the playback goroutine and must not call back into the Engine.
type Surface interface {
	beat.Highlighter
	SetGlyph(slot int, g notation.Glyph)
	TriggerRejectionShake()
}

// SurfaceState is a snapshot of what a surface shows.
type SurfaceState struct {
	Lit        [model.Slots]bool           `json:"lit"`
	Glyphs     [model.Slots]notation.Glyph `json:"glyphs"`
	Shakes     int                         `json:"shakes"`
	ShakingTil time.Time                   `json:"-"`
}

// Shaking reports whether a rejection shake is still running at now.
func (s SurfaceState) Shaking(now time.Time) bool { return now.Before(s.ShakingTil) }

// StateSurface keeps the surface state in memory. Adapters without their
// own retained state (HTTP, terminal) draw from it.
type StateSurface struct {
	mu    sync.Mutex
	state SurfaceState
	now   func() time.Time
	// OnUpdate, when set, is called after every change.
	OnUpdate func()
}

func NewStateSurface() *StateSurface {
	return &StateSurface{now: time.Now}
}

func (s *StateSurface) SetHighlight(slot int, on bool) {
	if slot < 0 || slot >= model.Slots {
		return
	}
	s.mu.Lock()
	s.state.Lit[slot] = on
	s.mu.Unlock()
	s.notify()
}

func (s *StateSurface) SetGlyph(slot int, g notation.Glyph) {
	if slot < 0 || slot >= model.Slots {
		return
	}
	s.mu.Lock()
	s.state.Glyphs[slot] = g
	s.mu.Unlock()
	s.notify()
}

func (s *StateSurface) TriggerRejectionShake() {
	s.mu.Lock()
	s.state.Shakes++
	s.state.ShakingTil = s.now().Add(ShakeDuration)
	s.mu.Unlock()
	s.notify()
}

func (s *StateSurface) State() SurfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *StateSurface) notify() {
	if s.OnUpdate != nil {
		s.OnUpdate()
	}
}

// Surfaces fans every call out to several surfaces.
type Surfaces []Surface

func (ss Surfaces) SetHighlight(slot int, on bool) {
	for _, s := range ss {
		s.SetHighlight(slot, on)
	}
}

func (ss Surfaces) SetGlyph(slot int, g notation.Glyph) {
	for _, s := range ss {
		s.SetGlyph(slot, g)
	}
}

func (ss Surfaces) TriggerRejectionShake() {
	for _, s := range ss {
		s.TriggerRejectionShake()
	}
}
