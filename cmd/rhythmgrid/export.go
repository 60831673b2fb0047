package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rhythmgrid/internal/midiexport"
)

var exportFlags struct {
	out       string
	metronome bool
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "measure.mid", "file to write")
	exportCmd.Flags().BoolVar(&exportFlags.metronome, "metronome", false, "add a hi-hat on every beat")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:     "export [start:length:color]...",
	Short:   "Writes a measure as a standard MIDI file",
	Example: `  rhythmgrid export --bpm 90 --sound pitch --pitch C3 -o groove.mid 0:green 4:orange 6:orange`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		blocks, err := parsePattern(args, logger)
		if err != nil {
			return err
		}
		opts := midiexport.Options{
			BPM:       cfg.BPM,
			Mode:      cfg.SoundMode,
			Pitch:     cfg.Pitch,
			Metronome: exportFlags.metronome,
		}
		if err := midiexport.WriteFile(exportFlags.out, blocks, opts); err != nil {
			return err
		}
		logger.Infof("[MAIN] Wrote %d blocks to %s", len(blocks), exportFlags.out)
		return nil
	},
}
