package beat

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

type fakeTicker struct {
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakeTimer struct {
	d time.Duration
	f func()
}

func (*fakeTimer) Stop() bool { return true }

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
	timers  []*fakeTimer
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{d: d, c: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) lastTicker() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

// takeTimers removes and returns the pending delayed callbacks.
func (c *fakeClock) takeTimers() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.timers
	c.timers = nil
	return ts
}

type recAudio struct {
	mu     sync.Mutex
	events []string
}

func (a *recAudio) PlayTick()               { a.add("tick") }
func (a *recAudio) PlayTone()               { a.add("tone") }
func (a *recAudio) PlayPitch(note string)   { a.add("pitch:" + note) }
func (a *recAudio) SetMasterVolume(float64) {}

func (a *recAudio) add(e string) {
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
}

func (a *recAudio) take() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ev := a.events
	a.events = nil
	return ev
}

type recSurface struct {
	mu  sync.Mutex
	lit [model.Slots]bool
}

func (r *recSurface) SetHighlight(slot int, on bool) {
	r.mu.Lock()
	r.lit[slot] = on
	r.mu.Unlock()
}

func (r *recSurface) snapshot() [model.Slots]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lit
}

type fixture struct {
	blocks []model.Block
	audio  *recAudio
	surf   *recSurface
	clock  *fakeClock
	sched  *Scheduler
	ticks  chan StepPlan
}

func newFixture(blocks ...model.Block) *fixture {
	f := &fixture{
		blocks: blocks,
		audio:  &recAudio{},
		surf:   &recSurface{},
		clock:  &fakeClock{},
		ticks:  make(chan StepPlan, 64),
	}
	f.sched = NewScheduler(func() []model.Block { return f.blocks }, f.audio, f.surf, game_log.Discard())
	f.sched.SetClock(f.clock)
	f.sched.OnTick = func(p StepPlan) { f.ticks <- p }
	return f
}

func (f *fixture) fire(t *testing.T) StepPlan {
	t.Helper()
	f.clock.lastTicker().c <- time.Now()
	select {
	case p := <-f.ticks:
		return p
	case <-time.After(time.Second):
		t.Fatalf("step did not run")
	}
	return StepPlan{}
}

func lit(slots ...int) [model.Slots]bool {
	var out [model.Slots]bool
	for _, s := range slots {
		out[s] = true
	}
	return out
}

func TestPlanEmptySlotsFallBack(t *testing.T) {
	blocks := []model.Block{{Start: 5, Length: 1, Color: model.Purple}}
	cases := []struct {
		step int
		want []int
	}{
		{0, []int{0, 1, 2, 3}},
		{1, []int{0, 1, 2, 3}},
		{4, []int{4}},
		{6, []int{6, 7}},
		{7, []int{7}},
		{9, []int{8, 9, 10, 11}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("step%d", tc.step), func(t *testing.T) {
			p := Plan(blocks, tc.step)
			if !reflect.DeepEqual(p.Highlight, tc.want) {
				t.Fatalf("highlight = %v, want %v", p.Highlight, tc.want)
			}
			if p.Sound {
				t.Fatalf("no block starts at %d", tc.step)
			}
		})
	}
}

func TestPlanBlockStartAndMidBlock(t *testing.T) {
	blocks := []model.Block{{Start: 8, Length: 4, Color: model.Green}}
	p := Plan(blocks, 8)
	if !p.Tick || !p.Sound || !reflect.DeepEqual(p.Highlight, []int{8, 9, 10, 11}) {
		t.Fatalf("unexpected plan at block start: %+v", p)
	}
	p = Plan(blocks, 9)
	if p.Tick || p.Sound || len(p.Highlight) != 0 {
		t.Fatalf("mid-block step must do nothing: %+v", p)
	}
}

func TestTickAndBlockSoundOnSameStep(t *testing.T) {
	f := newFixture(model.Block{Start: 0, Length: 4, Color: model.Green})
	f.sched.StepOnce()
	if got := f.audio.take(); !reflect.DeepEqual(got, []string{"tick", "tone"}) {
		t.Fatalf("audio = %v, want tick and tone", got)
	}
	if f.surf.snapshot() != lit(0, 1, 2, 3) {
		t.Fatalf("expected block slots lit, got %v", f.surf.snapshot())
	}
}

func TestPitchModePlaysSelectedNote(t *testing.T) {
	f := newFixture(model.Block{Start: 2, Length: 2, Color: model.Orange})
	f.sched.SetSoundMode(Pitch)
	f.sched.SetPitch("C4")
	f.sched.StepOnce()
	f.sched.StepOnce()
	f.sched.StepOnce()
	if got := f.audio.take(); !reflect.DeepEqual(got, []string{"tick", "pitch:C4"}) {
		t.Fatalf("audio = %v", got)
	}
}

func TestStepWrapsAroundMeasure(t *testing.T) {
	f := newFixture()
	for i := 0; i < model.Slots; i++ {
		if p := f.sched.StepOnce(); p.Step != i {
			t.Fatalf("expected step %d, got %d", i, p.Step)
		}
	}
	if st := f.sched.State(); st.Step != 0 {
		t.Fatalf("expected wrap to 0, got %d", st.Step)
	}
	ticks := 0
	for _, e := range f.audio.take() {
		if e == "tick" {
			ticks++
		}
	}
	if ticks != 4 {
		t.Fatalf("expected 4 beat ticks per measure, got %d", ticks)
	}
}

func TestStartRunsStepsOnTicker(t *testing.T) {
	f := newFixture()
	f.sched.Start()
	f.sched.Start()
	if len(f.clock.tickers) != 1 {
		t.Fatalf("second Start must be a no-op, got %d tickers", len(f.clock.tickers))
	}
	if d := f.clock.lastTicker().d; d != 250*time.Millisecond {
		t.Fatalf("expected 250ms period at 60 BPM, got %v", d)
	}
	for i := 0; i < 3; i++ {
		if p := f.fire(t); p.Step != i {
			t.Fatalf("expected step %d, got %d", i, p.Step)
		}
	}
	f.sched.Stop()
}

func TestRetuneKeepsStep(t *testing.T) {
	f := newFixture()
	f.sched.Start()
	f.fire(t)
	f.fire(t)
	f.fire(t)
	old := f.clock.lastTicker()

	if got := f.sched.Retune(120); got != 120 {
		t.Fatalf("Retune returned %d", got)
	}
	if f.sched.Period() != 125*time.Millisecond {
		t.Fatalf("expected 125ms, got %v", f.sched.Period())
	}
	if st := f.sched.State(); st.Step != 3 || !st.Playing {
		t.Fatalf("retune changed state: %+v", st)
	}
	if !old.isStopped() {
		t.Fatalf("old ticker must be stopped")
	}
	if f.clock.lastTicker() == old || f.clock.lastTicker().d != 125*time.Millisecond {
		t.Fatalf("expected a fresh 125ms ticker")
	}

	// a late tick from the old clock must not step
	old.c <- time.Now()
	select {
	case p := <-f.ticks:
		t.Fatalf("stale ticker stepped: %+v", p)
	case <-time.After(30 * time.Millisecond):
	}

	if p := f.fire(t); p.Step != 3 {
		t.Fatalf("expected step 3 after retune, got %d", p.Step)
	}
	f.sched.Stop()
}

func TestRetuneClamps(t *testing.T) {
	f := newFixture()
	if got := f.sched.Retune(5); got != MinBPM {
		t.Fatalf("expected %d, got %d", MinBPM, got)
	}
	if got := f.sched.Retune(1000); got != MaxBPM {
		t.Fatalf("expected %d, got %d", MaxBPM, got)
	}
	if len(f.clock.tickers) != 0 {
		t.Fatalf("retune while stopped must not start the clock")
	}
}

func TestStopResetsAndClears(t *testing.T) {
	f := newFixture()
	f.sched.Start()
	f.fire(t)
	f.fire(t)
	if f.surf.snapshot() == lit() {
		t.Fatalf("expected something lit while playing")
	}
	f.sched.Stop()
	if st := f.sched.State(); st.Playing || st.Step != 0 {
		t.Fatalf("stop must reset: %+v", st)
	}
	if f.surf.snapshot() != lit() || f.sched.Lit() != lit() {
		t.Fatalf("stop must clear highlights")
	}
	if !f.clock.lastTicker().isStopped() {
		t.Fatalf("ticker must be stopped")
	}
}

func TestStaleClearKeepsNewerHighlight(t *testing.T) {
	f := newFixture()
	f.sched.StepOnce() // lights 0..3
	first := f.clock.takeTimers()
	f.sched.StepOnce() // relights 0..3
	second := f.clock.takeTimers()

	for _, tm := range first {
		if tm.d != 250*time.Millisecond {
			t.Fatalf("clear delay = %v, want one step", tm.d)
		}
		tm.f()
	}
	if f.surf.snapshot() != lit(0, 1, 2, 3) {
		t.Fatalf("stale clear removed a newer highlight: %v", f.surf.snapshot())
	}
	for _, tm := range second {
		tm.f()
	}
	if f.surf.snapshot() != lit() {
		t.Fatalf("current clear should turn slots off: %v", f.surf.snapshot())
	}
}

func TestToggle(t *testing.T) {
	f := newFixture()
	if !f.sched.Toggle() || !f.sched.Playing() {
		t.Fatalf("toggle should start")
	}
	if f.sched.Toggle() || f.sched.Playing() {
		t.Fatalf("toggle should stop")
	}
}

func TestParseSoundMode(t *testing.T) {
	if m, ok := ParseSoundMode("Pitch"); !ok || m != Pitch {
		t.Fatalf("expected pitch")
	}
	if _, ok := ParseSoundMode("kazoo"); ok {
		t.Fatalf("expected failure")
	}
}
