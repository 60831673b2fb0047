package audio

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

const (
	SampleRate          = 44100
	bufferSizeBytes10ms = SampleRate / 100 * 2 // 10ms of 16-bit mono audio
)

var ErrAudioUnavailable = errors.New("audio device unavailable")

// Opener starts a device that pulls PCM from src until closed.
type Opener func(sampleRate int, src io.Reader) (io.Closer, error)

// Engine plays the trainer's sounds. The device is opened lazily on the
// first sound; sounds requested before it is ready are dropped, and if it
// never opens the engine stays silent.
type Engine struct {
	mix    *mixer
	open   Opener
	logger *game_log.Logger

	starting atomic.Bool
	ready    atomic.Bool
	failed   atomic.Bool
	player   io.Closer
	done     chan struct{}

	instMu      sync.RWMutex
	instruments map[string]Instrument
}

// NewEngine uses the platform device.
func NewEngine(logger *game_log.Logger) *Engine {
	return NewEngineWithOpener(openDevice, logger)
}

func NewEngineWithOpener(open Opener, logger *game_log.Logger) *Engine {
	e := &Engine{
		mix:    newMixer(),
		open:   open,
		logger: logger,
		done:   make(chan struct{}),
	}
	e.ResetInstruments()
	return e
}

// Register makes an instrument available for playback by ID.
func (e *Engine) Register(id string, inst Instrument) {
	e.instMu.Lock()
	e.instruments[id] = inst
	e.instMu.Unlock()
}

// ResetInstruments restores the built-in instrument set.
func (e *Engine) ResetInstruments() {
	e.instMu.Lock()
	e.instruments = map[string]Instrument{
		"tick": Tick{},
		"tone": Tone{},
	}
	e.instMu.Unlock()
}

// Resume starts opening the device in the background if that has not
// happened yet.
func (e *Engine) Resume() {
	if e.ready.Load() || e.failed.Load() || !e.starting.CompareAndSwap(false, true) {
		return
	}
	go e.init()
}

// Ready returns a channel closed once the device is open or has failed.
func (e *Engine) Ready() <-chan struct{} { return e.done }

// Available reports whether sounds currently reach a device.
func (e *Engine) Available() bool { return e.ready.Load() }

func (e *Engine) init() {
	defer close(e.done)
	p, err := e.open(SampleRate, e.mix)
	if err != nil {
		e.failed.Store(true)
		e.logger.Warnf("[AUDIO] %v; continuing without sound",
			fault.Wrap(ErrAudioUnavailable, fmsg.With(err.Error())))
		return
	}
	e.player = p
	e.ready.Store(true)
	e.logger.Infof("[AUDIO] Device ready at %d Hz", SampleRate)
}

// Play triggers an instrument by ID. Unknown IDs are ignored.
func (e *Engine) Play(id string) {
	e.instMu.RLock()
	inst, ok := e.instruments[id]
	e.instMu.RUnlock()
	if !ok {
		e.logger.Debugf("[AUDIO] Unknown instrument %q", id)
		return
	}
	e.trigger(inst)
}

func (e *Engine) trigger(inst Instrument) {
	if !e.ready.Load() {
		e.Resume()
		return
	}
	e.mix.Schedule(inst.NewVoice(SampleRate), 0)
}

func (e *Engine) PlayTick() { e.Play("tick") }

func (e *Engine) PlayTone() { e.Play("tone") }

// PlayPitch plays a triangle at the note's frequency, falling back to
// DefaultFrequency for names that do not parse.
func (e *Engine) PlayPitch(note string) {
	freq := DefaultFrequency
	if midi, err := NoteToMIDI(note); err != nil {
		e.logger.Debugf("[AUDIO] %v, using %.0f Hz", err, DefaultFrequency)
	} else {
		freq = MIDIToFrequency(midi)
	}
	e.trigger(Pitched{Freq: freq})
}

func (e *Engine) SetMasterVolume(v float64) {
	e.mix.SetGain(v)
	e.logger.Debugf("[AUDIO] Master volume %.2f", e.mix.Gain())
}

func (e *Engine) MasterVolume() float64 { return e.mix.Gain() }

func (e *Engine) Close() error {
	if !e.ready.Load() || e.player == nil {
		return nil
	}
	e.ready.Store(false)
	return e.player.Close()
}
