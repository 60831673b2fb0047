package midiexport

import (
	"io"
	"os"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/internal/audio"
)

const (
	// Resolution is the file's ticks per quarter note.
	Resolution = 960

	DrumChannel  = 9
	PitchChannel = 0

	// KickNote and HatNote are General MIDI percussion keys.
	KickNote = 36
	HatNote  = 42

	// FallbackNote is A4, matching the audio fallback of 440 Hz.
	FallbackNote = 69
)

const (
	velocity    = 100
	hatVelocity = 60
	trackName   = "rhythmgrid"
)

type Options struct {
	BPM   int
	Mode  beat.SoundMode
	Pitch string
	// Metronome adds a hi-hat on every beat.
	Metronome bool
}

type note struct {
	tick    uint32
	on      bool
	channel uint8
	key     uint8
	vel     uint8
}

// SlotTicks is the length of one slot (a sixteenth note).
func SlotTicks() uint32 {
	return smf.MetricTicks(Resolution).Ticks16th()
}

// Build converts one measure into a single-track SMF.
func Build(blocks []model.Block, opts Options) (*smf.SMF, error) {
	bpm := beat.ClampBPM(opts.BPM)
	if opts.BPM == 0 {
		bpm = beat.DefaultBPM
	}
	slot := SlotTicks()

	channel, key := uint8(DrumChannel), uint8(KickNote)
	if opts.Mode == beat.Pitch {
		channel = PitchChannel
		k, err := audio.NoteToMIDI(opts.Pitch)
		if err != nil || k > 127 {
			k = FallbackNote
		}
		key = uint8(k)
	}

	var notes []note
	for _, b := range blocks {
		start := uint32(b.Start) * slot
		end := uint32(b.End()) * slot
		notes = append(notes,
			note{tick: start, on: true, channel: channel, key: key, vel: velocity},
			note{tick: end, channel: channel, key: key})
	}
	if opts.Metronome {
		for s := 0; s < model.Slots; s += model.GroupSize {
			start := uint32(s) * slot
			notes = append(notes,
				note{tick: start, on: true, channel: DrumChannel, key: HatNote, vel: hatVelocity},
				note{tick: start + slot, channel: DrumChannel, key: HatNote})
		}
	}
	// note-offs first so back-to-back blocks retrigger
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].tick != notes[j].tick {
			return notes[i].tick < notes[j].tick
		}
		return !notes[i].on && notes[j].on
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(trackName))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(float64(bpm)))
	var last uint32
	for _, n := range notes {
		msg := midi.NoteOff(n.channel, n.key)
		if n.on {
			msg = midi.NoteOn(n.channel, n.key, n.vel)
		}
		tr.Add(n.tick-last, msg)
		last = n.tick
	}
	tr.Close(uint32(model.Slots)*slot - last)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	if err := s.Add(tr); err != nil {
		return nil, fault.Wrap(err, fmsg.With("add track"))
	}
	return s, nil
}

// Write encodes the measure as a Standard MIDI File to w.
func Write(w io.Writer, blocks []model.Block, opts Options) error {
	s, err := Build(blocks, opts)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fault.Wrap(err, fmsg.With("write midi"))
	}
	return nil
}

// WriteFile writes the measure to path, replacing any existing file.
func WriteFile(path string, blocks []model.Block, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("create midi file"))
	}
	if err := Write(f, blocks, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
