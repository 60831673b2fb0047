package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/internal/config"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

var rootFlags struct {
	envFile  string
	bpm      int
	sound    string
	pitch    string
	volume   float64
	logLevel string
	logFile  string
}

var rootCmd = &cobra.Command{
	Use:   "rhythmgrid",
	Short: "Rhythm notation trainer",
	Long: `rhythmgrid teaches rhythm notation on a one-measure grid of sixteen slots.
Place green (4), orange (2) and purple (1) blocks, watch the notation update
and play the measure back with a metronome.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.envFile, "env-file", ".env", "optional file of RHYTHMGRID_* settings")
	pf.IntVar(&rootFlags.bpm, "bpm", beat.DefaultBPM, "tempo in beats per minute (30-300)")
	pf.StringVar(&rootFlags.sound, "sound", "drum", "sound mode: drum or pitch")
	pf.StringVar(&rootFlags.pitch, "pitch", beat.DefaultPitch, "note played in pitch mode, e.g. A2 or C#3")
	pf.Float64Var(&rootFlags.volume, "volume", 1, "master volume (0-1)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "DEBUG, INFO, WARN, ERROR or NONE")
	pf.StringVar(&rootFlags.logFile, "log-file", "", "write logs to this file instead of stderr")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig merges the env file, the environment and any flags the user
// set, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(rootFlags.envFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("bpm") {
		cfg.BPM = rootFlags.bpm
	}
	if flags.Changed("sound") {
		m, ok := beat.ParseSoundMode(rootFlags.sound)
		if !ok {
			return cfg, fault.New(fmt.Sprintf("unknown sound mode %q", rootFlags.sound))
		}
		cfg.SoundMode = m
	}
	if flags.Changed("pitch") {
		cfg.Pitch = rootFlags.pitch
	}
	if flags.Changed("volume") {
		cfg.Volume = rootFlags.volume
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = game_log.LevelFromString(rootFlags.logLevel)
	}
	return cfg.Normalize(), nil
}

// newLogger writes to --log-file when given, otherwise to fallback.
func newLogger(cfg config.Config, fallback io.Writer) (*game_log.Logger, func(), error) {
	if rootFlags.logFile == "" {
		return game_log.New(fallback, cfg.LogLevel), func() {}, nil
	}
	f, err := os.OpenFile(rootFlags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fault.Wrap(err, fmsg.With("open log file"))
	}
	return game_log.New(f, cfg.LogLevel), func() { f.Close() }, nil
}
