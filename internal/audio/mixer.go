package audio

import (
	"sync"

	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

// mixer mixes multiple voices into a single 16-bit mono PCM stream.
type mixer struct {
	mu     sync.Mutex
	voices []*voiceState
	pos    int
	gain   float64
}

type voiceState struct {
	start int
	v     Voice
}

func newMixer() *mixer {
	return &mixer{gain: 1}
}

// Schedule adds a voice to start after delaySamples have elapsed.
func (m *mixer) Schedule(v Voice, delaySamples int) {
	m.mu.Lock()
	m.voices = append(m.voices, &voiceState{start: m.pos + delaySamples, v: v})
	m.mu.Unlock()
}

// SetGain sets the master volume, clamped to [0,1].
func (m *mixer) SetGain(g float64) {
	m.mu.Lock()
	m.gain = utils.Clamp(g, 0, 1)
	m.mu.Unlock()
}

func (m *mixer) Gain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gain
}

// Active returns how many voices are still sounding or waiting.
func (m *mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Read implements io.Reader for oto.Player.
func (m *mixer) Read(p []byte) (int, error) {
	samples := len(p) / 2
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < samples; i++ {
		var sum float64
		for idx := 0; idx < len(m.voices); idx++ {
			vs := m.voices[idx]
			if m.pos >= vs.start {
				val, done := vs.v.Sample()
				sum += val
				if done {
					m.voices = append(m.voices[:idx], m.voices[idx+1:]...)
					idx--
				}
			}
		}
		sum = utils.Clamp(sum*m.gain, -1, 1)
		v := int16(sum * 32767)
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
		m.pos++
	}
	return samples * 2, nil
}
