package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "tilerts.ai/internal/persistence/log"
	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/scenario"
	"tilerts.ai/internal/sim/tuning"
	"tilerts.ai/internal/sim/world"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "./configs/scenario.json", "scenario file (map, units, nodes, optional command script)")
		configDir    = flag.String("configs", "./configs", "config directory (resources.json, buildings.json)")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite read-model index")
		disableLog   = flag.Bool("disable_log", false, "disable the zstd tick log")
		ticks        = flag.Uint64("ticks", 0, "headless run length in ticks (default: script end + 200)")
		realtime     = flag.Bool("realtime", false, "run at the tuned tick rate and read JSON commands from stdin")
		viewEvery    = flag.Duration("view_every", 2*time.Second, "realtime: print unit views at this interval (0 to disable)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sim] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := loadCatalogs(*configDir, logger)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}

	worldLogger := log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds)
	w, err := world.New(sc.WorldConfig(), cats, tune, worldLogger)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	if err := sc.Apply(w); err != nil {
		logger.Fatalf("apply scenario: %v", err)
	}

	worldDir := filepath.Join(*dataDir, "worlds", w.ID())
	if !*disableLog {
		tickLog := persistlog.NewTickLogger(worldDir)
		defer tickLog.Close()
		w.SetTickLogger(tickLog)
	}

	// Optional read-model index (does not affect sim determinism).
	idx, err := openRuntimeIndex(worldDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertConfig(cats, tune); err != nil {
			logger.Printf("index: upsert config: %v", err)
		}
		w.SetIndexSink(idx)
	}

	logger.Printf("world=%s units=%d nodes=%d tick_rate=%dHz", w.ID(), len(w.UnitViews()), len(w.NodeViews()), tune.TickRateHz)

	if *realtime {
		ctx, cancel := signalContext()
		defer cancel()
		runRealtime(ctx, w, sc, os.Stdin, *viewEvery, logger)
	} else {
		n := *ticks
		if n == 0 {
			n = sc.LastScriptTick() + 200
		}
		runHeadless(w, sc, n, logger)
	}

	if idx != nil {
		reportIndex(idx, logger)
	}
}

func loadCatalogs(dir string, logger *log.Logger) (*catalogs.Catalogs, error) {
	if _, err := os.Stat(filepath.Join(dir, "resources.json")); errors.Is(err, os.ErrNotExist) {
		logger.Printf("no catalogs in %s; using built-in defaults", dir)
		return catalogs.Defaults(), nil
	}
	return catalogs.Load(dir)
}

// runHeadless steps the world n times as fast as possible, applying scripted
// commands at their ticks.
func runHeadless(w *world.World, sc *scenario.Scenario, n uint64, logger *log.Logger) {
	start := time.Now()
	var digest string
	for i := uint64(0); i < n; i++ {
		_, digest = w.StepOnce(sc.CommandsAt(w.CurrentTick()))
		for _, ue := range w.LastEvents() {
			logEvent(logger, ue)
		}
	}
	logger.Printf("ran %d ticks in %s digest=%s", n, time.Since(start).Round(time.Millisecond), digest)
	printViews(logger, w.UnitViews())
}

// runRealtime drives the world loop at the tuned rate. Scripted commands are
// fed on schedule; stdin lines are decoded as protocol commands.
func runRealtime(ctx context.Context, w *world.World, sc *scenario.Scenario, in io.Reader, every time.Duration, logger *log.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("world stopped: %v", err)
		}
	}()

	go func() {
		s := bufio.NewScanner(in)
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" {
				continue
			}
			cmd, err := protocol.DecodeCommand([]byte(line))
			if err != nil {
				logger.Printf("bad command: %v", err)
				continue
			}
			select {
			case w.Inbox() <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for _, entry := range sc.Script {
			for w.Metrics().Tick < entry.Tick {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second / time.Duration(w.Tuning().TickRateHz)):
				}
			}
			select {
			case w.Inbox() <- entry.Command:
			case <-ctx.Done():
				return
			}
		}
	}()

	var tick <-chan time.Time
	if every > 0 {
		t := time.NewTicker(every)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-done:
			return
		case <-tick:
			vctx, vcancel := context.WithTimeout(ctx, time.Second)
			v, err := w.RequestViews(vctx)
			vcancel()
			if err != nil {
				continue
			}
			m := w.Metrics()
			logger.Printf("tick=%d units=%d nodes=%d buildings=%d step_ms=%.3f", v.Tick, m.Units, m.Nodes, m.Buildings, m.StepMS)
			printViews(logger, v.Units)
		}
	}
}

func logEvent(logger *log.Logger, ue world.UnitEvent) {
	typ, _ := ue.Event["type"].(string)
	switch typ {
	case protocol.EvMoveFail, protocol.EvGatherFail, protocol.EvBuildFail, protocol.EvCommandFail,
		protocol.EvGatherDone, protocol.EvNodeDepleted, protocol.EvSkillUp, protocol.EvBuildDone:
		b, _ := json.Marshal(ue.Event)
		logger.Printf("%s %s", ue.UnitID, b)
	}
}

func printViews(logger *log.Logger, units []world.UnitView) {
	for _, u := range units {
		gather := "-"
		if u.Gathering != nil {
			gather = fmt.Sprintf("%s %.0f%%", u.Gathering.Kind, u.Gathering.Fraction*100)
		}
		logger.Printf("  %s cell=(%d,%d) %s gather=%s inv=%v", u.ID, u.Cell.X, u.Cell.Y, u.State, gather, u.Inventory)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
