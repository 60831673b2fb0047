package audio

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

func TestNoteToFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, NoteToFrequency("A4"), 1e-9)
	assert.InDelta(t, 110.0, NoteToFrequency("A2"), 1e-9)
	assert.InDelta(t, 261.6256, NoteToFrequency("C4"), 1e-3)
	assert.InDelta(t, 277.1826, NoteToFrequency("C#4"), 1e-3)
	assert.Equal(t, DefaultFrequency, NoteToFrequency("Z9"))
	assert.Equal(t, DefaultFrequency, NoteToFrequency("A10"))
	assert.Equal(t, DefaultFrequency, NoteToFrequency("E#4"))
	assert.Equal(t, DefaultFrequency, NoteToFrequency(""))
}

func TestNoteToMIDI(t *testing.T) {
	midi, err := NoteToMIDI("A4")
	require.NoError(t, err)
	assert.Equal(t, 69, midi)
	midi, err = NoteToMIDI("C0")
	require.NoError(t, err)
	assert.Equal(t, 12, midi)
	_, err = NoteToMIDI("bb")
	assert.True(t, errors.Is(err, ErrInvalidNoteName))
}

func TestPitchChoicesParse(t *testing.T) {
	choices := PitchChoices()
	assert.Contains(t, choices, "A2")
	for _, c := range choices {
		_, err := NoteToMIDI(c)
		assert.NoError(t, err, c)
	}
}

// render drains v and returns its samples.
func render(v Voice) []float64 {
	var out []float64
	for {
		s, done := v.Sample()
		if done {
			return out
		}
		out = append(out, s)
	}
}

func peak(buf []float64) float64 {
	var p float64
	for _, s := range buf {
		p = math.Max(p, math.Abs(s))
	}
	return p
}

func TestVoiceDurations(t *testing.T) {
	assert.Len(t, render(Tick{}.NewVoice(SampleRate)), int(0.05*SampleRate))
	assert.Len(t, render(Tone{}.NewVoice(SampleRate)), int(0.13*SampleRate))
	assert.Len(t, render(Pitched{Freq: 440}.NewVoice(SampleRate)), int(0.13*SampleRate))
}

func TestVoicesDecay(t *testing.T) {
	for name, inst := range map[string]Instrument{
		"tick":  Tick{},
		"tone":  Tone{},
		"pitch": Pitched{Freq: 220},
	} {
		buf := render(inst.NewVoice(SampleRate))
		head := peak(buf[:len(buf)/4])
		tail := peak(buf[len(buf)*3/4:])
		assert.Greater(t, head, tail, name)
		assert.LessOrEqual(t, head, 1.3, name)
	}
}

func TestTriangleFrequency(t *testing.T) {
	buf := render(Pitched{Freq: 441}.NewVoice(SampleRate))
	crossings := 0
	for i := 1; i < len(buf); i++ {
		if buf[i-1] < 0 && buf[i] >= 0 {
			crossings++
		}
	}
	// 441 Hz for 0.13s is about 57 cycles
	assert.InDelta(t, 57, crossings, 2)
}

func TestMixerGain(t *testing.T) {
	loud := &mixer{gain: 1}
	quiet := &mixer{gain: 1}
	quiet.SetGain(0.25)
	loud.Schedule(Pitched{Freq: 440}.NewVoice(SampleRate), 0)
	quiet.Schedule(Pitched{Freq: 440}.NewVoice(SampleRate), 0)

	a := make([]byte, SampleRate/100*2)
	b := make([]byte, SampleRate/100*2)
	loud.Read(a)
	quiet.Read(b)
	sample := func(buf []byte, i int) float64 { return math.Abs(float64(int16(buf[2*i]) | int16(buf[2*i+1])<<8)) }
	for i := 10; i < 20; i++ {
		assert.InDelta(t, sample(a, i)*0.25, sample(b, i), 2)
	}

	quiet.SetGain(3)
	assert.Equal(t, 1.0, quiet.Gain())
}

func TestMixerSchedulesWithDelayAndRetiresVoices(t *testing.T) {
	m := newMixer()
	m.Schedule(Tick{}.NewVoice(SampleRate), 0)
	m.Schedule(Tick{}.NewVoice(SampleRate), SampleRate/4)
	buf := make([]byte, SampleRate)
	m.Read(buf)
	first, second := -1, -1
	for i := 0; i < len(buf)/2; i++ {
		v := int16(buf[2*i]) | int16(buf[2*i+1])<<8
		if v == 0 {
			continue
		}
		if first == -1 {
			first = i
		} else if i >= SampleRate/4 && second == -1 {
			second = i
			break
		}
	}
	assert.True(t, first >= 0 && first < SampleRate/20, "first voice should start immediately")
	assert.True(t, second >= SampleRate/4, "second voice should honour its delay")

	m.Read(make([]byte, SampleRate))
	assert.Equal(t, 0, m.Active())
}

type nopCloser struct{ closed bool }

func (n *nopCloser) Close() error { n.closed = true; return nil }

func TestEngineOpensLazilyAndPlays(t *testing.T) {
	dev := &nopCloser{}
	var src io.Reader
	e := NewEngineWithOpener(func(sr int, r io.Reader) (io.Closer, error) {
		src = r
		return dev, nil
	}, game_log.Discard())

	e.PlayTick() // dropped, starts the device
	select {
	case <-e.Ready():
	case <-time.After(time.Second):
		t.Fatalf("device never became ready")
	}
	require.True(t, e.Available())
	assert.Equal(t, 0, e.mix.Active())

	e.PlayTick()
	e.PlayTone()
	e.PlayPitch("Z9")
	assert.Equal(t, 3, e.mix.Active())
	assert.NotNil(t, src)

	e.SetMasterVolume(0.5)
	assert.Equal(t, 0.5, e.MasterVolume())

	require.NoError(t, e.Close())
	assert.True(t, dev.closed)
}

func TestEngineWithoutDeviceStaysSilent(t *testing.T) {
	e := NewEngineWithOpener(func(int, io.Reader) (io.Closer, error) {
		return nil, errors.New("no sound card")
	}, game_log.Discard())
	e.PlayTone()
	<-e.Ready()
	assert.False(t, e.Available())
	e.PlayTone()
	e.Play("nope")
	assert.Equal(t, 0, e.mix.Active())
	assert.NoError(t, e.Close())
}
