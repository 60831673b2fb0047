package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rhythmgrid/internal/tui"
)

var tuiFlags struct {
	mute bool
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiFlags.mute, "mute", false, "run without opening the audio device")
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Runs the trainer in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// stderr belongs to the terminal UI; logs go to --log-file or nowhere
		logger, closeLog, err := newLogger(cfg, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()

		s := newSession(cfg, !tuiFlags.mute, logger)
		defer s.Close()
		return tui.Run(s.eng, s.surf, logger)
	},
}
