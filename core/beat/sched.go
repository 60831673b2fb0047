package beat

import (
	"strings"
	"sync"
	"time"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

const (
	MinBPM     = 30
	MaxBPM     = 300
	DefaultBPM = 60

	DefaultPitch = "A2"
)

type SoundMode int

const (
	Drum SoundMode = iota
	Pitch
)

func (m SoundMode) String() string {
	if m == Pitch {
		return "pitch"
	}
	return "drum"
}

func (m SoundMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseSoundMode accepts "drum" or "pitch".
func ParseSoundMode(s string) (SoundMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drum":
		return Drum, true
	case "pitch":
		return Pitch, true
	default:
		return Drum, false
	}
}

// Audio is the sound device. Calls must not block the step loop.
type Audio interface {
	PlayTick()
	PlayTone()
	PlayPitch(note string)
	SetMasterVolume(v float64)
}

// Highlighter lights slots on the rendering surface.
type Highlighter interface {
	SetHighlight(slot int, on bool)
}

// Period is the length of one step (a sixteenth note) at bpm.
func Period(bpm int) time.Duration {
	return time.Minute / time.Duration(bpm*4)
}

// ClampBPM limits bpm to the supported tempo range.
func ClampBPM(bpm int) int { return utils.Clamp(bpm, MinBPM, MaxBPM) }

// State is a copy of the scheduler's public state.
type State struct {
	Playing bool      `json:"playing"`
	Step    int       `json:"step"`
	BPM     int       `json:"bpm"`
	Mode    SoundMode `json:"mode"`
	Pitch   string    `json:"pitch"`
}

// Scheduler walks the measure one slot per step. Steps run one at a time
// under mu; OnTick and the sinks are invoked with mu held and must not call
// back into the scheduler.
type Scheduler struct {
	mu sync.Mutex

	blocks func() []model.Block
	audio  Audio
	hl     Highlighter
	clock  Clock
	logger *game_log.Logger

	playing bool
	step    int
	bpm     int
	mode    SoundMode
	pitch   string

	loopGen uint64
	ticker  Ticker
	quit    chan struct{}

	lit    [model.Slots]bool
	litGen [model.Slots]uint64

	OnTick func(StepPlan)
}

// NewScheduler reads the pattern through blocks on every step.
func NewScheduler(blocks func() []model.Block, audio Audio, hl Highlighter, logger *game_log.Logger) *Scheduler {
	return &Scheduler{
		blocks: blocks,
		audio:  audio,
		hl:     hl,
		clock:  SystemClock,
		logger: logger,
		bpm:    DefaultBPM,
		mode:   Drum,
		pitch:  DefaultPitch,
	}
}

// SetClock swaps the time source. Only valid while stopped.
func (s *Scheduler) SetClock(c Clock) {
	s.mu.Lock()
	s.clock = c
	s.mu.Unlock()
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		return
	}
	s.playing = true
	s.step = 0
	s.startLoop()
	s.logger.Infof("[SCHED] Started at %d BPM (period %v)", s.bpm, Period(s.bpm))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.stopLoop()
	s.playing = false
	s.step = 0
	s.clearAll()
	s.logger.Infof("[SCHED] Stopped")
}

// Toggle starts a stopped scheduler or stops a playing one and reports the
// new playing state.
func (s *Scheduler) Toggle() bool {
	if s.Playing() {
		s.Stop()
		return false
	}
	s.Start()
	return true
}

// Retune sets the tempo, clamped to [MinBPM, MaxBPM]. While playing the
// clock restarts at the new period and the current step is kept.
func (s *Scheduler) Retune(bpm int) int {
	bpm = ClampBPM(bpm)
	s.mu.Lock()
	defer s.mu.Unlock()
	if bpm == s.bpm {
		return bpm
	}
	s.bpm = bpm
	if s.playing {
		s.stopLoop()
		s.startLoop()
	}
	s.logger.Debugf("[SCHED] Retuned to %d BPM (period %v, step %d)", bpm, Period(bpm), s.step)
	return bpm
}

func (s *Scheduler) SetSoundMode(m SoundMode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

func (s *Scheduler) SetPitch(note string) {
	s.mu.Lock()
	s.pitch = note
	s.mu.Unlock()
}

func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Playing: s.playing, Step: s.step, BPM: s.bpm, Mode: s.mode, Pitch: s.pitch}
}

// Period returns the current step period.
func (s *Scheduler) Period() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Period(s.bpm)
}

// Lit returns which slots are currently highlighted.
func (s *Scheduler) Lit() [model.Slots]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lit
}

// StepOnce runs a single step immediately.
func (s *Scheduler) StepOnce() StepPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Scheduler) startLoop() {
	s.loopGen++
	gen := s.loopGen
	t := s.clock.NewTicker(Period(s.bpm))
	quit := make(chan struct{})
	s.ticker = t
	s.quit = quit
	go s.run(gen, t, quit)
}

func (s *Scheduler) stopLoop() {
	s.loopGen++
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.quit)
		s.ticker = nil
		s.quit = nil
	}
}

func (s *Scheduler) run(gen uint64, t Ticker, quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-t.C():
			s.mu.Lock()
			if gen != s.loopGen {
				// superseded by a retune or stop
				s.mu.Unlock()
				return
			}
			s.stepLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) stepLocked() StepPlan {
	s.clearAll()
	var blocks []model.Block
	if s.blocks != nil {
		blocks = s.blocks()
	}
	plan := Plan(blocks, s.step)

	if plan.Tick && s.audio != nil {
		s.audio.PlayTick()
	}
	if plan.Sound && s.audio != nil {
		if s.mode == Pitch {
			s.audio.PlayPitch(s.pitch)
		} else {
			s.audio.PlayTone()
		}
	}
	for _, slot := range plan.Highlight {
		s.highlight(slot)
	}
	s.logger.Debugf("[SCHED] Step %d: tick=%t sound=%t highlight=%v", plan.Step, plan.Tick, plan.Sound, plan.Highlight)
	if s.OnTick != nil {
		s.OnTick(plan)
	}
	s.step = (s.step + 1) % model.Slots
	return plan
}

func (s *Scheduler) highlight(slot int) {
	s.litGen[slot]++
	gen := s.litGen[slot]
	s.lit[slot] = true
	if s.hl != nil {
		s.hl.SetHighlight(slot, true)
	}
	s.clock.AfterFunc(Period(s.bpm), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.litGen[slot] != gen || !s.lit[slot] {
			return
		}
		s.lit[slot] = false
		if s.hl != nil {
			s.hl.SetHighlight(slot, false)
		}
	})
}

func (s *Scheduler) clearAll() {
	for slot := range s.lit {
		s.litGen[slot]++
		if s.lit[slot] {
			s.lit[slot] = false
			if s.hl != nil {
				s.hl.SetHighlight(slot, false)
			}
		}
	}
}
