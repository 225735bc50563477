package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/xtding233/idle-backend/internal/game"
	"github.com/xtding233/idle-backend/internal/sim"
)

func main() {
	configDir := flag.String("config", "config/games", "directory holding default.yaml and game files")
	gameID := flag.String("game", "prestige-tree", "game id")
	mode := flag.String("mode", "", "optional mode overlay")
	trials := flag.Int("runs", 20, "number of play-throughs")
	seed := flag.Uint64("seed", 0, "RNG seed, 0 for a random one")
	frame := flag.Duration("frame", time.Second, "nominal simulated frame")
	jitter := flag.Float64("jitter", 0.1, "relative frame jitter in [0,1]")
	maxHours := flag.Float64("max-hours", 4, "give up on a run after this much game time")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	_, params, err := game.NewLoader(*configDir).Resolve(*gameID, *mode, game.Overrides{})
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	start := time.Now()
	st, err := sim.Run(params, sim.Config{
		Trials:     *trials,
		Seed:       *seed,
		Frame:      *frame,
		Jitter:     *jitter,
		MaxSeconds: *maxHours * 3600,
	})
	if err != nil {
		slog.Error("simulate", "err", err)
		os.Exit(1)
	}
	slog.Info("simulation done", "game", params.Game, "mode", params.Mode,
		"finished", st.Finished, "unfinished", st.Unfinished, "took", time.Since(start).Round(time.Millisecond))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		slog.Error("encode", "err", err)
		os.Exit(1)
	}
}
