package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/placement"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

var testLogger = game_log.New(io.Discard, game_log.LevelError)

func newTestModel(t *testing.T) (tuiModel, *engine.Engine) {
	t.Helper()
	surf := engine.NewStateSurface()
	eng := engine.New(engine.DefaultOptions(), nil, surf, testLogger)
	t.Cleanup(eng.Close)
	m := newModel(eng, surf, testLogger)
	m.debounced = func(f func()) { f() }
	return m, eng
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m tuiModel, msgs ...tea.Msg) tuiModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(tuiModel)
	}
	return m
}

func TestPlaceWithCursor(t *testing.T) {
	m, eng := newTestModel(t)
	m = send(t, m, runes("2"), runes("l"), runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	blocks := eng.Snapshot().Blocks
	require.Len(t, blocks, 1)
	assert.Equal(t, 2, blocks[0].Start)
	assert.Equal(t, model.Orange, blocks[0].Color)
	assert.Equal(t, placement.ReasonNone, m.lastReject)
	assert.Contains(t, m.View(), "2 orange")
}

func TestRejectionShownAndSelectionKept(t *testing.T) {
	m, eng := newTestModel(t)
	m = send(t, m, runes("1"), runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, placement.OffbeatViolation, m.lastReject)
	assert.True(t, eng.Snapshot().Selection.Active())
	assert.Equal(t, 1, m.surface.Shakes)
	assert.Contains(t, m.View(), "beat")

	m.now = func() time.Time { return time.Now().Add(time.Second) }
	m = send(t, m, shakeDoneMsg{})
	assert.Equal(t, placement.ReasonNone, m.lastReject)
}

func TestCursorWraps(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, model.Slots-1, m.cursor)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.cursor)
}

func TestSettingsKeys(t *testing.T) {
	m, eng := newTestModel(t)
	m = send(t, m, runes("+"), runes("+"), runes("-"))
	assert.Equal(t, beat.DefaultBPM+1, eng.Snapshot().Playback.BPM)
	assert.Equal(t, beat.DefaultBPM+1, m.pendingBPM)

	m = send(t, m, runes("m"), runes("]"))
	pb := eng.Snapshot().Playback
	assert.Equal(t, beat.Pitch, pb.Mode)
	assert.Equal(t, "A#2", pb.Pitch)

	m = send(t, m, runes("<"))
	assert.InDelta(t, 0.9, eng.Snapshot().Volume, 1e-9)
	assert.Contains(t, m.View(), "pitch A#2")
}

func TestPlayToggleAndClear(t *testing.T) {
	m, eng := newTestModel(t)
	m = send(t, m, runes("p"))
	assert.True(t, eng.Snapshot().Playback.Playing)
	assert.Contains(t, m.View(), "PLAYING")
	m = send(t, m, runes("p"))
	assert.False(t, eng.Snapshot().Playback.Playing)

	eng.SelectPalette(model.Purple)
	eng.ClickSlot(3)
	m = send(t, m, runes("c"))
	assert.Empty(t, eng.Snapshot().Blocks)
}

func TestQuitStopsPlayback(t *testing.T) {
	m, eng := newTestModel(t)
	eng.Start()
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, eng.Snapshot().Playback.Playing)
}

func TestWaitForEventDeliversEngineEvents(t *testing.T) {
	m, eng := newTestModel(t)
	for len(eng.Events) > 0 {
		<-eng.Events
	}
	eng.SelectPalette(model.Green)
	msg := waitForEvent(eng.Events)()
	ev, ok := msg.(engineMsg)
	require.True(t, ok)
	assert.Equal(t, engine.EventChange, ev.Kind)

	m = send(t, m, ev)
	assert.True(t, m.snap.Selection.Active())
}

func TestViewShowsGlyphRow(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	assert.Equal(t, 4, strings.Count(view, "𝄽"))
	assert.Contains(t, view, "&")
}
