package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/placement"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

// parsePattern places blocks written as start:length:color, or start:color
// for the palette length, with the same rules as the interactive trainer.
func parsePattern(args []string, logger *game_log.Logger) ([]model.Block, error) {
	place := placement.New(model.NewTimeline(logger), logger)
	for _, arg := range args {
		start, length, color, err := parseBlockArg(arg)
		if err != nil {
			return nil, err
		}
		place.Select(length, color)
		res := place.Place(start)
		if err := res.Err(); err != nil {
			return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("place %q (%s)", arg, res.Reason)))
		}
	}
	return place.Timeline().Blocks(), nil
}

func parseBlockArg(arg string) (start, length int, color model.Color, err error) {
	bad := func(why string) error {
		return fault.New(fmt.Sprintf("block %q: %s", arg, why), ftag.With(ftag.InvalidArgument))
	}
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, model.ColorNone, bad("want start:length:color or start:color")
	}
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, model.ColorNone, bad("start is not a number")
	}
	color = model.ParseColor(strings.ToLower(parts[len(parts)-1]))
	if color == model.ColorNone {
		return 0, 0, model.ColorNone, bad("unknown color")
	}
	length = model.PaletteLength(color)
	if len(parts) == 3 {
		length, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, model.ColorNone, bad("length is not a number")
		}
	}
	return start, length, color, nil
}
