package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rhythmgrid/internal/ui"
)

func init() {
	rootCmd.AddCommand(guiCmd)
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Opens the trainer window",
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

		s := newSession(cfg, true, logger)
		defer s.Close()
		return ui.Run(ui.New(s.eng, s.surf, logger))
	},
}
