// Package tui is the terminal front end built on bubbletea.
package tui

import (
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/placement"
	"github.com/ingyamilmolinar/rhythmgrid/internal/audio"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

const (
	tempoDebounce = 150 * time.Millisecond
	volumeStep    = 0.1
)

// engineMsg carries one engine event into the update loop.
type engineMsg engine.Event

// shakeDoneMsg asks for a redraw once a rejection shake has run out.
type shakeDoneMsg struct{}

type tuiModel struct {
	eng    *engine.Engine
	surf   *engine.StateSurface
	logger *game_log.Logger
	keys   keyMap
	help   help.Model

	cursor     int
	snap       engine.Snapshot
	surface    engine.SurfaceState
	lastReject placement.Reason
	pendingBPM int
	debounced  func(func())
	pitches    []string
	now        func() time.Time
	width      int
}

func newModel(eng *engine.Engine, surf *engine.StateSurface, logger *game_log.Logger) tuiModel {
	m := tuiModel{
		eng:       eng,
		surf:      surf,
		logger:    logger,
		keys:      keys,
		help:      help.New(),
		debounced: debounce.New(tempoDebounce),
		pitches:   audio.PitchChoices(),
		now:       time.Now,
	}
	m.refresh()
	m.pendingBPM = m.snap.Playback.BPM
	return m
}

// waitForEvent blocks on the engine's event channel. The engine never
// blocks on it, so this is the only path from the playback goroutine into
// the program.
func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return engineMsg(ev)
	}
}

func (m *tuiModel) refresh() {
	m.snap = m.eng.Snapshot()
	if m.surf != nil {
		m.surface = m.surf.State()
	}
}

func (m tuiModel) Init() tea.Cmd {
	return waitForEvent(m.eng.Events)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case engineMsg:
		m.refresh()
		cmds := []tea.Cmd{waitForEvent(m.eng.Events)}
		if msg.Kind == engine.EventReject {
			m.lastReject = msg.Reason
			cmds = append(cmds, tea.Tick(engine.ShakeDuration, func(time.Time) tea.Msg { return shakeDoneMsg{} }))
		}
		if msg.Kind == engine.EventChange && !m.tempoPending() {
			m.pendingBPM = m.snap.Playback.BPM
		}
		return m, tea.Batch(cmds...)
	case shakeDoneMsg:
		m.refresh()
		if !m.surface.Shaking(m.now()) {
			m.lastReject = placement.ReasonNone
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) tempoPending() bool {
	return m.pendingBPM != m.snap.Playback.BPM
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.eng.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Green):
		m.eng.SelectPalette(model.Green)
	case key.Matches(msg, m.keys.Orange):
		m.eng.SelectPalette(model.Orange)
	case key.Matches(msg, m.keys.Purple):
		m.eng.SelectPalette(model.Purple)
	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor + model.Slots - 1) % model.Slots
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % model.Slots
	case key.Matches(msg, m.keys.Click):
		res := m.eng.ClickSlot(m.cursor)
		if res.Status == placement.Rejected {
			m.lastReject = res.Reason
		} else {
			m.lastReject = placement.ReasonNone
		}
	case key.Matches(msg, m.keys.Deselect):
		m.eng.ClickOutside()
	case key.Matches(msg, m.keys.Play):
		m.eng.TogglePlay()
	case key.Matches(msg, m.keys.Clear):
		m.eng.Clear()
	case key.Matches(msg, m.keys.TempoUp):
		m.nudgeTempo(1)
	case key.Matches(msg, m.keys.TempoDown):
		m.nudgeTempo(-1)
	case key.Matches(msg, m.keys.Mode):
		if m.snap.Playback.Mode == beat.Pitch {
			m.eng.SetSoundMode(beat.Drum)
		} else {
			m.eng.SetSoundMode(beat.Pitch)
		}
	case key.Matches(msg, m.keys.PitchUp):
		m.stepPitch(1)
	case key.Matches(msg, m.keys.PitchDown):
		m.stepPitch(-1)
	case key.Matches(msg, m.keys.VolUp):
		m.eng.SetVolume(m.snap.Volume + volumeStep)
	case key.Matches(msg, m.keys.VolDown):
		m.eng.SetVolume(m.snap.Volume - volumeStep)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.refresh()
	return m, nil
}

// nudgeTempo updates the shown tempo at once and retunes the scheduler
// after key repeat settles.
func (m *tuiModel) nudgeTempo(delta int) {
	m.pendingBPM = beat.ClampBPM(m.pendingBPM + delta)
	bpm := m.pendingBPM
	eng, logger := m.eng, m.logger
	m.debounced(func() {
		logger.Debugf("[TUI] Tempo set to %d", eng.SetTempo(bpm))
	})
}

func (m *tuiModel) stepPitch(delta int) {
	idx := utils.IndexOf(m.pitches, m.snap.Playback.Pitch)
	if idx < 0 {
		idx = utils.IndexOf(m.pitches, beat.DefaultPitch)
	}
	idx = utils.Clamp(idx+delta, 0, len(m.pitches)-1)
	m.eng.SetPitch(m.pitches[idx])
}

// Run takes over the terminal until the user quits.
func Run(eng *engine.Engine, surf *engine.StateSurface, logger *game_log.Logger) error {
	p := tea.NewProgram(newModel(eng, surf, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
