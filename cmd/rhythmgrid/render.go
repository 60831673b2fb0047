package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
)

var renderFlags struct {
	json bool
}

func init() {
	renderCmd.Flags().BoolVar(&renderFlags.json, "json", false, "print the rendered cells as JSON")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [start:length:color]...",
	Short: "Prints the notation row for a measure",
	Example: `  rhythmgrid render 0:green 4:2:orange 6:purple
  rhythmgrid render --json 8:4:green`,
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
		cells := notation.Render(blocks)
		if renderFlags.json {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cells)
		}
		writeRow(cmd.OutOrStdout(), cells)
		return nil
	},
}

// writeRow prints glyphs, block colors and beat labels as three aligned lines.
func writeRow(w io.Writer, cells [model.Slots]notation.Cell) {
	var glyphs, fills, labels strings.Builder
	for i, c := range cells {
		sym := notation.Symbol(c.Glyph)
		if c.Glyph == notation.Blank {
			sym = " "
		}
		fill := "."
		if c.Color != model.ColorNone {
			fill = strings.ToUpper(c.Color.String()[:1])
		}
		fmt.Fprintf(&glyphs, "%-3s", sym)
		fmt.Fprintf(&fills, "%-3s", fill)
		fmt.Fprintf(&labels, "%-3s", notation.BeatLabel(i))
	}
	for _, line := range []string{glyphs.String(), fills.String(), labels.String()} {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
