package audio

import (
	"math"
	"math/rand"
)

// Voice generates PCM samples in the range [-1,1].
type Voice interface {
	// Sample returns the next sample and whether the voice has finished.
	Sample() (float64, bool)
}

// Instrument constructs a new Voice instance when triggered.
type Instrument interface {
	NewVoice(sampleRate int) Voice
}

// expRamp follows an exponential ramp from v0 to v1 over n samples.
func expRamp(v0, v1 float64, i, n int) float64 {
	if i >= n {
		return v1
	}
	return v0 * math.Pow(v1/v0, float64(i)/float64(n))
}

// Tick is the beat cue: high-passed white noise with a 50ms decay.
type Tick struct{}

const (
	tickDur    = 0.05
	tickCutoff = 800.0
)

func (Tick) NewVoice(sampleRate int) Voice {
	return &tickVoice{
		n:  int(tickDur * float64(sampleRate)),
		hp: newHighpass(tickCutoff, 1, float64(sampleRate)),
	}
}

type tickVoice struct {
	i, n int
	hp   *biquad
}

func (v *tickVoice) Sample() (float64, bool) {
	if v.i >= v.n {
		return 0, true
	}
	x := v.hp.process(rand.Float64()*2 - 1)
	out := x * expRamp(0.2, 0.01, v.i, v.n)
	v.i++
	return out, false
}

// Tone is the drum sound: a sine sweeping down from 110 to 40 Hz with a
// short noise click on top.
type Tone struct{}

const (
	toneDur      = 0.13
	toneFreqHi   = 110.0
	toneFreqLo   = 40.0
	clickDur     = 0.02
	clickGain    = 0.25
	sweepPortion = 0.8
)

func (Tone) NewVoice(sampleRate int) Voice {
	sr := float64(sampleRate)
	return &toneVoice{
		n:      int(toneDur * sr),
		sweep:  int(toneDur * sweepPortion * sr),
		clickN: int(clickDur * sr),
		sr:     sr,
	}
}

type toneVoice struct {
	i, n   int
	sweep  int
	clickN int
	sr     float64
	phase  float64
}

func (v *toneVoice) Sample() (float64, bool) {
	if v.i >= v.n && v.i >= v.clickN {
		return 0, true
	}
	var out float64
	if v.i < v.n {
		freq := expRamp(toneFreqHi, toneFreqLo, v.i, v.sweep)
		v.phase += 2 * math.Pi * freq / v.sr
		out += math.Sin(v.phase) * expRamp(1, 0.01, v.i, v.n)
	}
	if v.i < v.clickN {
		decay := 1 - float64(v.i)/float64(v.clickN)
		out += (rand.Float64()*2 - 1) * decay * clickGain
	}
	v.i++
	return out, false
}

// Pitched plays a triangle wave at Freq.
type Pitched struct {
	Freq float64
}

func (p Pitched) NewVoice(sampleRate int) Voice {
	return &triangleVoice{
		n:    int(toneDur * float64(sampleRate)),
		step: p.Freq / float64(sampleRate),
	}
}

type triangleVoice struct {
	i, n  int
	step  float64
	phase float64
}

func (v *triangleVoice) Sample() (float64, bool) {
	if v.i >= v.n {
		return 0, true
	}
	tri := 4*math.Abs(v.phase-math.Floor(v.phase+0.5)) - 1
	v.phase += v.step
	out := tri * expRamp(1, 0.01, v.i, v.n)
	v.i++
	return out, false
}

// biquad is a second order IIR filter (RBJ cookbook coefficients).
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newHighpass(cutoff, q, sampleRate float64) *biquad {
	w0 := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cos := math.Cos(w0)
	a0 := 1 + alpha
	return &biquad{
		b0: (1 + cos) / 2 / a0,
		b1: -(1 + cos) / a0,
		b2: (1 + cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
