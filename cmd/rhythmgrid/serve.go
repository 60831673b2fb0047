package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rhythmgrid/internal/api"
)

var serveFlags struct {
	addr  string
	audio bool
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (default from RHYTHMGRID_ADDR or :8080)")
	serveCmd.Flags().BoolVar(&serveFlags.audio, "audio", false, "play the measure on this machine's audio device")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves a trainer session over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if serveFlags.addr != "" {
			cfg.Addr = serveFlags.addr
		}
		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		s := newSession(cfg, serveFlags.audio, logger)
		defer s.Close()
		return api.NewServer(s.eng, s.surf, logger).ListenAndServe(cfg.Addr)
	},
}
