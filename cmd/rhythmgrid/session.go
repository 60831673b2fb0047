package main

import (
	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	"github.com/ingyamilmolinar/rhythmgrid/internal/audio"
	"github.com/ingyamilmolinar/rhythmgrid/internal/config"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

// session is one engine with its in-memory surface and, optionally, sound.
type session struct {
	eng   *engine.Engine
	surf  *engine.StateSurface
	audio *audio.Engine
}

func newSession(cfg config.Config, withAudio bool, logger *game_log.Logger) *session {
	s := &session{surf: engine.NewStateSurface()}
	var a beat.Audio
	if withAudio {
		s.audio = audio.NewEngine(logger)
		a = s.audio
	}
	s.eng = engine.New(cfg.Options(), a, s.surf, logger)
	logger.Infof("[MAIN] Session ready: %d BPM, %s, pitch %s, volume %.2f",
		cfg.BPM, cfg.SoundMode, cfg.Pitch, cfg.Volume)
	return s
}

func (s *session) Close() {
	s.eng.Close()
	if s.audio != nil {
		s.audio.Close()
	}
}
