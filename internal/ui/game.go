// Package ui is the desktop front end: an ebiten window that draws the
// trainer and feeds mouse and keyboard input to the engine.
package ui

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

const (
	DefaultWindowW = 960
	DefaultWindowH = 360

	shakeAmplitude = 8.0
	shakeHz        = 20.0
)

type Game struct {
	eng       *engine.Engine
	surf      *engine.StateSurface
	logger    *game_log.Logger
	transport *Transport

	layout     Layout
	winW, winH int

	snap     engine.Snapshot
	leftPrev bool
	keys     keyEdges
	now      func() time.Time
}

// New builds the window state. surf must be a surface the engine draws to.
func New(eng *engine.Engine, surf *engine.StateSurface, logger *game_log.Logger) *Game {
	g := &Game{
		eng:       eng,
		surf:      surf,
		logger:    logger,
		transport: NewTransport(eng, logger),
		now:       time.Now,
	}
	g.snap = eng.Snapshot()
	g.Layout(DefaultWindowW, DefaultWindowH)
	return g
}

func (g *Game) Layout(w, h int) (int, int) {
	if w != g.winW || h != g.winH {
		g.winW, g.winH = w, h
		g.layout = NewLayout(w, h)
		g.transport.SetBounds(g.layout.Header)
		g.logger.Debugf("[UI] Layout: %dx%d", w, h)
	}
	return w, h
}

func (g *Game) Update() error {
	mx, my := cursorPosition()
	pressed := isMouseButtonPressed(ebiten.MouseButtonLeft)
	consumed := g.transport.Update(mx, my, pressed)
	if pressed && !g.leftPrev && !consumed {
		g.click(mx, my)
	}
	g.leftPrev = pressed
	g.handleKeys()
	g.snap = g.eng.Snapshot()
	return nil
}

func (g *Game) click(x, y int) {
	if pt(x, y, g.layout.Header) {
		return
	}
	if c, ok := g.layout.PaletteAt(x, y); ok {
		g.eng.SelectPalette(c)
		g.logger.Debugf("[UI] Selected %s", c)
		return
	}
	if slot, ok := g.layout.SlotAt(x, y); ok {
		res := g.eng.ClickSlot(slot)
		g.logger.Debugf("[UI] Click slot %d: %s %s", slot, res.Status, res.Reason)
		return
	}
	g.eng.ClickOutside()
}

var paletteKeys = []struct {
	key   ebiten.Key
	color model.Color
}{
	{ebiten.KeyDigit1, model.Green},
	{ebiten.KeyDigit2, model.Orange},
	{ebiten.KeyDigit3, model.Purple},
}

func (g *Game) handleKeys() {
	for _, pk := range paletteKeys {
		if g.keys.justPressed(pk.key) {
			g.eng.SelectPalette(pk.color)
		}
	}
	if g.keys.justPressed(ebiten.KeySpace) {
		g.eng.TogglePlay()
	}
	if g.keys.justPressed(ebiten.KeyC) {
		g.eng.Clear()
	}
	if g.keys.justPressed(ebiten.KeyEscape) {
		g.eng.ClickOutside()
	}
	if g.keys.justPressed(ebiten.KeyM) {
		g.transport.ToggleSoundMode()
	}
	if g.keys.justPressed(ebiten.KeyEqual) || g.keys.justPressed(ebiten.KeyNumpadAdd) {
		g.transport.NudgeTempo(1)
	}
	if g.keys.justPressed(ebiten.KeyMinus) || g.keys.justPressed(ebiten.KeyNumpadSubtract) {
		g.transport.NudgeTempo(-1)
	}
}

// shakeOffset is the horizontal displacement of the timeline while a
// rejection shake runs: a damped oscillation that ends at til.
func shakeOffset(til, now time.Time) int {
	remaining := til.Sub(now)
	if remaining <= 0 {
		return 0
	}
	if remaining > engine.ShakeDuration {
		remaining = engine.ShakeDuration
	}
	elapsed := (engine.ShakeDuration - remaining).Seconds()
	amp := shakeAmplitude * float64(remaining) / float64(engine.ShakeDuration)
	return int(math.Round(amp * math.Sin(elapsed*2*math.Pi*shakeHz+math.Pi/2)))
}

// slotFills colors each slot with the block covering it.
func slotFills(blocks []model.Block) [model.Slots]color.Color {
	var fills [model.Slots]color.Color
	for _, b := range blocks {
		for s := b.Start; s < b.End() && s < model.Slots; s++ {
			fills[s] = blockColor(b.Color)
		}
	}
	return fills
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBG)
	g.transport.Draw(screen, g.layout.Header)

	sel := g.snap.Selection
	for _, sw := range g.layout.Palette {
		selected := sel.Active() && sel.Color == sw.Color
		border := color.Color(colButtonBorder)
		if selected {
			border = colHighlight
		}
		drawButton(screen, sw.Rect, blockColor(sw.Color), border, selected)
	}

	state := g.surf.State()
	off := image.Pt(shakeOffset(state.ShakingTil, g.now()), 0)

	for i, gl := range state.Glyphs {
		if gl == notation.Blank {
			continue
		}
		ink := color.Color(colInk)
		if gl.IsRest() {
			ink = colRestInk
		}
		drawGlyph(screen, g.layout.Notation[i].Add(off), gl, ink)
		if span := gl.Span(); span > 1 {
			r := g.layout.GlyphRect(i, span).Add(off)
			drawRect(screen, image.Rect(r.Min.X+4, r.Max.Y-3, r.Max.X-4, r.Max.Y-2), colGridLine, true)
		}
	}

	fills := slotFills(g.snap.Blocks)
	for i, r := range g.layout.Slots {
		defaultSlotStyle.Draw(screen, r.Add(off), fills[i], state.Lit[i])
		if i%model.GroupSize == 0 && i > 0 {
			x := r.Min.X - slotPad + off.X
			drawRect(screen, image.Rect(x-1, r.Min.Y, x+1, r.Max.Y), colBeatLine, true)
		}
	}

	for i, r := range g.layout.Labels {
		label := notation.BeatLabel(i)
		if label == "" {
			continue
		}
		x := r.Min.X + (r.Dx()-debugCharW*len(label))/2
		y := r.Min.Y + (r.Dy()-debugCharH)/2
		ebitenutil.DebugPrintAt(screen, label, x, y)
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(DefaultWindowW, DefaultWindowH)
	ebiten.SetWindowTitle("rhythmgrid")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	g.logger.Infof("[UI] Opening window")
	return ebiten.RunGame(g)
}
