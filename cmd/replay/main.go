package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "tilerts.ai/internal/persistence/log"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/scenario"
	"tilerts.ai/internal/sim/tuning"
	"tilerts.ai/internal/sim/world"
)

// errStop ends a replay early once -to_tick is passed.
var errStop = errors.New("stop")

func main() {
	var (
		scenarioPath = flag.String("scenario", "./configs/scenario.json", "scenario the logged run started from")
		eventsDir    = flag.String("events", "", "events dir containing events-*.jsonl.zst")
		configDir    = flag.String("configs", "./configs", "config directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		fromTick     = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick       = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -events")
		os.Exit(2)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load tuning:", err)
		os.Exit(1)
	}
	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load scenario:", err)
		os.Exit(1)
	}

	w, err := world.New(sc.WorldConfig(), cats, tune, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
	if err := sc.Apply(w); err != nil {
		fmt.Fprintln(os.Stderr, "apply scenario:", err)
		os.Exit(1)
	}

	files, err := persistlog.ListEventFiles(*eventsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	r := replayer{w: w, verifyFrom: *fromTick, toTick: *toTick}
	for _, path := range files {
		err := persistlog.ReadTicks(path, func(e world.TickLogEntry) error { return r.apply(e, filepath.Base(path)) })
		if errors.Is(err, errStop) {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: world=%s checked=%d ticks final_tick=%d\n", w.ID(), r.checked, w.CurrentTick())
}

type replayer struct {
	w          *world.World
	verifyFrom uint64
	toTick     uint64
	checked    uint64
}

// apply steps the world with the logged commands and compares digests.
// Ticks must be contiguous from the scenario start.
func (r *replayer) apply(entry world.TickLogEntry, file string) error {
	if r.toTick != 0 && entry.Tick > r.toTick {
		return errStop
	}
	if entry.Tick != r.w.CurrentTick() {
		return fmt.Errorf("tick mismatch: want=%d got=%d (file=%s)", r.w.CurrentTick(), entry.Tick, file)
	}
	tick, got := r.w.StepOnce(entry.Commands)
	if tick != entry.Tick {
		return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d (file=%s)", tick, entry.Tick, file)
	}
	if tick >= r.verifyFrom {
		r.checked++
		if got != entry.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, got, entry.Digest)
		}
	}
	return nil
}
