package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
	"github.com/ingyamilmolinar/rhythmgrid/core/placement"
)

const cellWidth = 3

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("40"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("238"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	cellStyle    = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	emptyStyle   = cellStyle.Background(lipgloss.Color("236"))
	litStyle     = cellStyle.Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0"))
	cursorStyle  = cellStyle.Foreground(lipgloss.Color("229"))
	restStyle    = cellStyle.Foreground(lipgloss.Color("245"))
	noteStyle    = cellStyle.Foreground(lipgloss.Color("255")).Bold(true)

	blockColors = map[model.Color]lipgloss.Color{
		model.Green:  lipgloss.Color("35"),
		model.Orange: lipgloss.Color("208"),
		model.Purple: lipgloss.Color("93"),
	}
)

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.paletteView())
	b.WriteString("\n\n")

	indent := ""
	if m.surface.Shaking(m.now()) {
		indent = " "
	}
	b.WriteString(indent + m.notationView() + "\n")
	b.WriteString(indent + m.slotsView() + "\n")
	b.WriteString(indent + m.labelsView() + "\n")
	b.WriteString(indent + m.cursorView() + "\n")

	if m.lastReject != placement.ReasonNone {
		b.WriteString(errorStyle.Render("✗ " + rejectText(m.lastReject)))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m tuiModel) headerView() string {
	pb := m.snap.Playback
	state := stoppedStyle.Render(" STOPPED ")
	if pb.Playing {
		state = playingStyle.Render(" PLAYING ")
	}
	sound := "drum"
	if pb.Mode == beat.Pitch {
		sound = "pitch " + pb.Pitch
	}
	return fmt.Sprintf("%s %s %s",
		titleStyle.Render("rhythmgrid"),
		state,
		infoStyle.Render(fmt.Sprintf("%d BPM · %s · vol %d%%", m.pendingBPM, sound, int(m.snap.Volume*100+0.5))))
}

func (m tuiModel) paletteView() string {
	sel := m.snap.Selection
	var parts []string
	for i, c := range []model.Color{model.Green, model.Orange, model.Purple} {
		n := model.PaletteLength(c)
		swatch := lipgloss.NewStyle().
			Background(blockColors[c]).
			Width(n * cellWidth).
			Render("")
		label := fmt.Sprintf("%d %s", i+1, c)
		if sel.Active() && sel.Color == c {
			label = titleStyle.Render("[" + label + "]")
		} else {
			label = infoStyle.Render(" " + label + " ")
		}
		parts = append(parts, swatch+" "+label)
	}
	return strings.Join(parts, "   ")
}

func (m tuiModel) notationView() string {
	var b strings.Builder
	for _, g := range m.surface.Glyphs {
		style := noteStyle
		if g.IsRest() || g == notation.Blank {
			style = restStyle
		}
		sym := notation.Symbol(g)
		if g == notation.Blank {
			sym = " "
		}
		b.WriteString(style.Render(sym))
	}
	return b.String()
}

func (m tuiModel) slotsView() string {
	var fills [model.Slots]model.Color
	for _, blk := range m.snap.Blocks {
		for s := blk.Start; s < blk.End() && s < model.Slots; s++ {
			fills[s] = blk.Color
		}
	}
	var b strings.Builder
	for i := 0; i < model.Slots; i++ {
		style := emptyStyle
		if c, ok := blockColors[fills[i]]; ok {
			style = cellStyle.Background(c)
		}
		if m.surface.Lit[i] {
			style = litStyle
		}
		text := ""
		if blk, ok := startsAt(m.snap.Blocks, i); ok {
			text = fmt.Sprint(blk.Length)
		}
		b.WriteString(style.Render(text))
	}
	return b.String()
}

func startsAt(blocks []model.Block, slot int) (model.Block, bool) {
	for _, b := range blocks {
		if b.Start == slot {
			return b, true
		}
	}
	return model.Block{}, false
}

func (m tuiModel) labelsView() string {
	var b strings.Builder
	for i := 0; i < model.Slots; i++ {
		b.WriteString(restStyle.Render(notation.BeatLabel(i)))
	}
	return b.String()
}

func (m tuiModel) cursorView() string {
	var b strings.Builder
	for i := 0; i < model.Slots; i++ {
		mark := ""
		if i == m.cursor {
			mark = "^"
		}
		b.WriteString(cursorStyle.Render(mark))
	}
	return b.String()
}

func rejectText(r placement.Reason) string {
	switch r {
	case placement.OffbeatViolation:
		return "long blocks must start on a beat or half-beat"
	case placement.OutOfBounds:
		return "block does not fit in the measure"
	case placement.Overlap:
		return "slot already taken"
	default:
		return r.String()
	}
}
