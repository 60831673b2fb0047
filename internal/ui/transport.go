package ui

import (
	"fmt"
	"image"
	"time"

	"github.com/bep/debounce"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	"github.com/ingyamilmolinar/rhythmgrid/internal/audio"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

// TempoDebounce is how long tempo edits settle before the scheduler is
// retuned.
const TempoDebounce = 150 * time.Millisecond

const volumeStep = 0.1

// Transport is the header bar: playback, clear, tempo, sound and volume.
type Transport struct {
	eng    *engine.Engine
	logger *game_log.Logger
	snap   engine.Snapshot

	playBtn   *Button
	clearBtn  *Button
	bpmDecBtn *Button
	bpmIncBtn *Button
	modeBtn   *Button
	pitchDec  *Button
	pitchInc  *Button
	volDecBtn *Button
	volIncBtn *Button
	bpmRect   image.Rectangle
	pitchRect image.Rectangle
	volRect   image.Rectangle

	// pendingBPM is shown immediately; the engine follows after debounce.
	pendingBPM   int
	bpmErrorAnim float64
	debounced    func(func())
	pitches      []string
}

func NewTransport(eng *engine.Engine, logger *game_log.Logger) *Transport {
	t := &Transport{
		eng:       eng,
		logger:    logger,
		snap:      eng.Snapshot(),
		debounced: debounce.New(TempoDebounce),
		pitches:   audio.PitchChoices(),
	}
	t.pendingBPM = t.snap.Playback.BPM

	t.playBtn = NewButton("PLAY", playButtonStyle, func() { t.eng.TogglePlay() })
	t.playBtn.Label = func() string {
		if t.snap.Playback.Playing {
			return "STOP"
		}
		return "PLAY"
	}
	t.clearBtn = NewButton("CLEAR", defaultButtonStyle, func() { t.eng.Clear() })
	t.bpmDecBtn = NewButton("-", defaultButtonStyle, func() { t.NudgeTempo(-1) })
	t.bpmDecBtn.Repeat = true
	t.bpmIncBtn = NewButton("+", defaultButtonStyle, func() { t.NudgeTempo(1) })
	t.bpmIncBtn.Repeat = true
	t.modeBtn = NewButton("DRUM", defaultButtonStyle, t.ToggleSoundMode)
	t.modeBtn.Label = func() string {
		if t.snap.Playback.Mode == beat.Pitch {
			return "PITCH"
		}
		return "DRUM"
	}
	t.pitchDec = NewButton("<", defaultButtonStyle, func() { t.StepPitch(-1) })
	t.pitchInc = NewButton(">", defaultButtonStyle, func() { t.StepPitch(1) })
	t.volDecBtn = NewButton("VOL-", defaultButtonStyle, func() { t.eng.SetVolume(t.snap.Volume - volumeStep) })
	t.volIncBtn = NewButton("VOL+", defaultButtonStyle, func() { t.eng.SetVolume(t.snap.Volume + volumeStep) })
	return t
}

func (t *Transport) buttons() []*Button {
	return []*Button{t.playBtn, t.clearBtn, t.bpmDecBtn, t.bpmIncBtn, t.modeBtn, t.pitchDec, t.pitchInc, t.volDecBtn, t.volIncBtn}
}

// SetBounds lays the controls out along r.
func (t *Transport) SetBounds(r image.Rectangle) {
	// play clear gap - bpm + gap mode < pitch > gap vol- vol vol+
	cols := []float64{1.2, 1.2, 0.3, 0.5, 1.2, 0.5, 0.3, 1.2, 0.5, 1, 0.5, 0.3, 1, 1, 1}
	g := NewGridLayout(insetRect(r, 6), cols, []float64{1})
	cell := func(c int) image.Rectangle { return insetRect(g.Cell(c, 0), buttonPad) }
	t.playBtn.SetRect(cell(0))
	t.clearBtn.SetRect(cell(1))
	t.bpmDecBtn.SetRect(cell(3))
	t.bpmRect = cell(4)
	t.bpmIncBtn.SetRect(cell(5))
	t.modeBtn.SetRect(cell(7))
	t.pitchDec.SetRect(cell(8))
	t.pitchRect = cell(9)
	t.pitchInc.SetRect(cell(10))
	t.volDecBtn.SetRect(cell(12))
	t.volRect = cell(13)
	t.volIncBtn.SetRect(cell(14))
}

const buttonPad = 2

// Update handles one frame of mouse input and reports whether a control
// consumed the press.
func (t *Transport) Update(mx, my int, pressed bool) bool {
	t.snap = t.eng.Snapshot()
	consumed := false
	for _, b := range t.buttons() {
		if b.Handle(mx, my, pressed) {
			consumed = true
		}
	}
	if pt(mx, my, t.bpmRect) || pt(mx, my, t.pitchRect) || pt(mx, my, t.volRect) {
		consumed = consumed || pressed
	}
	t.snap = t.eng.Snapshot()

	t.bpmErrorAnim *= 0.85
	if t.bpmErrorAnim < 0.01 {
		t.bpmErrorAnim = 0
	}
	return consumed
}

// NudgeTempo moves the displayed tempo by delta and schedules the retune.
// Pushing past either end flashes the tempo box.
func (t *Transport) NudgeTempo(delta int) {
	want := t.pendingBPM + delta
	t.pendingBPM = utils.Clamp(want, beat.MinBPM, beat.MaxBPM)
	if t.pendingBPM != want {
		t.bpmErrorAnim = 1
	}
	bpm := t.pendingBPM
	t.debounced(func() {
		got := t.eng.SetTempo(bpm)
		t.logger.Debugf("[UI] Tempo set to %d", got)
	})
}

func (t *Transport) PendingBPM() int { return t.pendingBPM }

func (t *Transport) ToggleSoundMode() {
	if t.snap.Playback.Mode == beat.Pitch {
		t.eng.SetSoundMode(beat.Drum)
	} else {
		t.eng.SetSoundMode(beat.Pitch)
	}
	t.snap = t.eng.Snapshot()
}

// StepPitch moves the pitch selector through the offered notes.
func (t *Transport) StepPitch(delta int) {
	idx := utils.IndexOf(t.pitches, t.snap.Playback.Pitch)
	if idx < 0 {
		idx = utils.IndexOf(t.pitches, beat.DefaultPitch)
	}
	idx = utils.Clamp(idx+delta, 0, len(t.pitches)-1)
	t.eng.SetPitch(t.pitches[idx])
	t.snap = t.eng.Snapshot()
}

func (t *Transport) Draw(dst *ebiten.Image, r image.Rectangle) {
	drawRect(dst, r, colHeaderBG, true)
	for _, b := range t.buttons() {
		b.Draw(dst)
	}
	t.drawBox(dst, t.bpmRect, fmt.Sprintf("%d BPM", t.pendingBPM))
	if t.bpmErrorAnim > 0 {
		drawRect(dst, t.bpmRect, fadeColor(colError, t.bpmErrorAnim), false)
	}
	t.drawBox(dst, t.pitchRect, t.snap.Playback.Pitch)
	t.drawBox(dst, t.volRect, fmt.Sprintf("%d%%", int(t.snap.Volume*100+0.5)))
}

func (t *Transport) drawBox(dst *ebiten.Image, r image.Rectangle, text string) {
	drawRect(dst, r, colButton, true)
	x := r.Min.X + (r.Dx()-debugCharW*len(text))/2
	y := r.Min.Y + (r.Dy()-debugCharH)/2
	ebitenutil.DebugPrintAt(dst, text, x, y)
}
