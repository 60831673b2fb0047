package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/joho/godotenv"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/utils"
)

// Environment variables read by Load.
const (
	EnvBPM      = "RHYTHMGRID_BPM"
	EnvSound    = "RHYTHMGRID_SOUND"
	EnvPitch    = "RHYTHMGRID_PITCH"
	EnvVolume   = "RHYTHMGRID_VOLUME"
	EnvLogLevel = "RHYTHMGRID_LOG_LEVEL"
	EnvAddr     = "RHYTHMGRID_ADDR"
)

type Config struct {
	BPM       int
	SoundMode beat.SoundMode
	Pitch     string
	Volume    float64
	LogLevel  game_log.Level
	Addr      string
}

func Default() Config {
	return Config{
		BPM:       beat.DefaultBPM,
		SoundMode: beat.Drum,
		Pitch:     beat.DefaultPitch,
		Volume:    1,
		LogLevel:  game_log.LevelInfo,
		Addr:      ":8080",
	}
}

// Load reads files (".env" when none are given) into the process
// environment and builds a Config from the RHYTHMGRID_* variables. A
// missing env file is not an error. Malformed values are reported together
// with the config built from the remaining ones.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Default(), fault.Wrap(err, fmsg.With("load env file"))
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, starting from the defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	if v := strings.TrimSpace(getenv(EnvBPM)); v != "" {
		bpm, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fault.Wrap(err, fmsg.With(EnvBPM)))
		} else {
			cfg.BPM = bpm
		}
	}
	if v := getenv(EnvSound); v != "" {
		m, ok := beat.ParseSoundMode(v)
		if !ok {
			errs = append(errs, fault.New(fmt.Sprintf("%s: unknown sound mode %q", EnvSound, v)))
		} else {
			cfg.SoundMode = m
		}
	}
	if v := strings.TrimSpace(getenv(EnvPitch)); v != "" {
		cfg.Pitch = v
	}
	if v := strings.TrimSpace(getenv(EnvVolume)); v != "" {
		vol, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fault.Wrap(err, fmsg.With(EnvVolume)))
		} else {
			cfg.Volume = vol
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = game_log.LevelFromString(v)
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		cfg.Addr = v
	}
	return cfg.Normalize(), errors.Join(errs...)
}

// Normalize clamps tempo and volume into range and fills empty fields.
func (c Config) Normalize() Config {
	if c.BPM == 0 {
		c.BPM = beat.DefaultBPM
	}
	c.BPM = beat.ClampBPM(c.BPM)
	c.Volume = utils.Clamp(c.Volume, 0, 1)
	if c.Pitch == "" {
		c.Pitch = beat.DefaultPitch
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	return c
}

// Options converts the playback part of the config for engine.New.
func (c Config) Options() engine.Options {
	return engine.Options{
		BPM:    c.BPM,
		Mode:   c.SoundMode,
		Pitch:  c.Pitch,
		Volume: c.Volume,
	}
}
