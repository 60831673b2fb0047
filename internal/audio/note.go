package audio

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// DefaultFrequency is used for note names that do not parse.
const DefaultFrequency = 440.0

var ErrInvalidNoteName = errors.New("invalid note name")

var (
	noteRe    = regexp.MustCompile(`^([A-G]#?)(\d)$`)
	noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
)

// NoteToMIDI converts a name like "A4" or "C#3" to a MIDI note number.
func NoteToMIDI(note string) (int, error) {
	m := noteRe.FindStringSubmatch(note)
	if m == nil {
		return 0, fault.Wrap(ErrInvalidNoteName,
			fmsg.With(fmt.Sprintf("parse %q", note)),
			ftag.With(ftag.InvalidArgument))
	}
	idx := -1
	for i, n := range noteNames {
		if n == m[1] {
			idx = i
			break
		}
	}
	if idx < 0 {
		// E# and B# match the pattern but are not note names here.
		return 0, fault.Wrap(ErrInvalidNoteName,
			fmsg.With(fmt.Sprintf("parse %q", note)),
			ftag.With(ftag.InvalidArgument))
	}
	octave, _ := strconv.Atoi(m[2])
	return idx + 12*(octave+1), nil
}

// MIDIToFrequency uses equal temperament with A4 = 440 Hz.
func MIDIToFrequency(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// NoteToFrequency returns the pitch of note, or DefaultFrequency when the
// name is not understood.
func NoteToFrequency(note string) float64 {
	midi, err := NoteToMIDI(note)
	if err != nil {
		return DefaultFrequency
	}
	return MIDIToFrequency(midi)
}

// PitchChoices lists the note names offered by the pitch selectors.
func PitchChoices() []string {
	var out []string
	for octave := 2; octave <= 5; octave++ {
		for _, n := range noteNames {
			out = append(out, n+strconv.Itoa(octave))
		}
	}
	return out
}
