package ui

import (
	"sync"
	"testing"
	"time"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
)

func newTestTransport(t *testing.T) (*Transport, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.DefaultOptions(), nil, nil, testLogger)
	t.Cleanup(eng.Close)
	tr := NewTransport(eng, testLogger)
	tr.SetBounds(NewLayout(DefaultWindowW, DefaultWindowH).Header)
	return tr, eng
}

func TestTransportButtonsDoNotOverlap(t *testing.T) {
	tr, _ := newTestTransport(t)
	buttons := tr.buttons()
	for i := 0; i < len(buttons); i++ {
		ri := buttons[i].Rect()
		if ri.Empty() {
			t.Fatalf("button %d (%s) has no area", i, buttons[i].Text)
		}
		for j := i + 1; j < len(buttons); j++ {
			if ri.Overlaps(buttons[j].Rect()) {
				t.Fatalf("buttons %d and %d overlap", i, j)
			}
		}
	}
}

func TestTransportTempoClampFlashes(t *testing.T) {
	tr, eng := newTestTransport(t)
	tr.debounced = func(f func()) { f() }
	tr.pendingBPM = beat.MaxBPM
	tr.NudgeTempo(1)
	if tr.PendingBPM() != beat.MaxBPM {
		t.Fatalf("pending bpm %d", tr.PendingBPM())
	}
	if tr.bpmErrorAnim == 0 {
		t.Fatalf("expected error flash at the tempo limit")
	}
	if got := eng.Snapshot().Playback.BPM; got != beat.MaxBPM {
		t.Fatalf("engine bpm %d", got)
	}
	for i := 0; i < 100; i++ {
		tr.Update(0, 0, false)
	}
	if tr.bpmErrorAnim != 0 {
		t.Fatalf("flash should fade out, got %f", tr.bpmErrorAnim)
	}
}

func TestTransportTempoIsDebounced(t *testing.T) {
	tr, eng := newTestTransport(t)
	var mu sync.Mutex
	var pending []func()
	tr.debounced = func(f func()) {
		mu.Lock()
		pending = []func(){f}
		mu.Unlock()
	}
	for i := 0; i < 10; i++ {
		tr.NudgeTempo(1)
	}
	if got := eng.Snapshot().Playback.BPM; got != beat.DefaultBPM {
		t.Fatalf("tempo applied before debounce: %d", got)
	}
	mu.Lock()
	last := pending[0]
	mu.Unlock()
	last()
	if got := eng.Snapshot().Playback.BPM; got != beat.DefaultBPM+10 {
		t.Fatalf("bpm %d after debounce", got)
	}
}

func TestTransportRealDebounceSettles(t *testing.T) {
	tr, eng := newTestTransport(t)
	tr.NudgeTempo(5)
	tr.NudgeTempo(5)
	deadline := time.Now().Add(2 * time.Second)
	for eng.Snapshot().Playback.BPM != beat.DefaultBPM+10 {
		if time.Now().After(deadline) {
			t.Fatalf("tempo never settled, bpm %d", eng.Snapshot().Playback.BPM)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTransportPlayButtonToggles(t *testing.T) {
	tr, eng := newTestTransport(t)
	x, y := center(tr.playBtn.Rect())
	tr.Update(x, y, true)
	tr.Update(x, y, false)
	if !eng.Snapshot().Playback.Playing {
		t.Fatalf("play button did not start playback")
	}
	if tr.playBtn.text() != "STOP" {
		t.Fatalf("label %q", tr.playBtn.text())
	}
	tr.Update(x, y, true)
	tr.Update(x, y, false)
	if eng.Snapshot().Playback.Playing {
		t.Fatalf("play button did not stop playback")
	}
}

func TestTransportPitchAndVolume(t *testing.T) {
	tr, eng := newTestTransport(t)
	tr.StepPitch(1)
	if p := eng.Snapshot().Playback.Pitch; p != "A#2" {
		t.Fatalf("pitch %q", p)
	}
	for i := 0; i < 200; i++ {
		tr.StepPitch(-1)
	}
	if p := eng.Snapshot().Playback.Pitch; p != "C2" {
		t.Fatalf("pitch %q", p)
	}

	x, y := center(tr.volDecBtn.Rect())
	tr.Update(x, y, true)
	tr.Update(x, y, false)
	if v := eng.Snapshot().Volume; v < 0.89 || v > 0.91 {
		t.Fatalf("volume %f", v)
	}
}
