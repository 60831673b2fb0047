package ui

import (
	"image"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// Ebiten's debug font uses a 6x13 glyph.
	debugCharW = 6
	debugCharH = 13
)

// Button is a clickable rectangle with a text label. Label, when set,
// overrides Text on every draw.
type Button struct {
	r       image.Rectangle
	Text    string
	Label   func() string
	Style   ButtonVisual
	OnClick func()
	Repeat  bool

	pressed bool
	hovered bool
	held    int
}

func NewButton(text string, style ButtonVisual, onClick func()) *Button {
	return &Button{Text: text, Style: style, OnClick: onClick}
}

func (b *Button) Rect() image.Rectangle { return b.r }

func (b *Button) SetRect(r image.Rectangle) { b.r = r }

func (b *Button) text() string {
	if b.Label != nil {
		return b.Label()
	}
	return b.Text
}

func (b *Button) Draw(dst *ebiten.Image) {
	if b.Style != nil {
		b.Style.Draw(dst, b.r, b.pressed, b.hovered)
	}
	tr := b.textRect()
	ebitenutil.DebugPrintAt(dst, b.text(), tr.Min.X, tr.Min.Y)
}

// textRect returns the rectangle occupied by the label when drawn.
func (b *Button) textRect() image.Rectangle {
	w := debugCharW * utf8.RuneCountInString(b.text())
	h := debugCharH
	x := b.r.Min.X + (b.r.Dx()-w)/2
	y := b.r.Min.Y + (b.r.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Handle feeds one frame of mouse state to the button. OnClick fires on the
// first pressed frame and, for repeating buttons, again while held. It
// reports whether the button consumed the press.
func (b *Button) Handle(mx, my int, pressed bool) bool {
	inside := pt(mx, my, b.r)
	b.hovered = inside
	if pressed && inside {
		b.held++
		if b.held == 1 || (b.Repeat && b.repeatTick()) {
			if b.OnClick != nil {
				b.OnClick()
			}
		}
		b.pressed = true
		return true
	}
	b.pressed = false
	b.held = 0
	return false
}

// repeatTick starts repeating after one second and speeds up the longer the
// button stays down.
func (b *Button) repeatTick() bool {
	d := b.held
	if d <= 60 {
		return false
	}
	step := d - 60
	accel := step / 30
	if accel > 5 {
		accel = 5
	}
	interval := 6 - accel
	return step%interval == 0
}
