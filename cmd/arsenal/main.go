// Package main provides the headless arsenal runner: it loads weapon and chest
// content, runs the fixed-step simulation and serves the text console on
// standard input and, optionally, over telnet.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/config"
	"github.com/cory-johannsen/arsenal/internal/frontend/console"
	"github.com/cory-johannsen/arsenal/internal/frontend/telnet"
	"github.com/cory-johannsen/arsenal/internal/game/command"
	"github.com/cory-johannsen/arsenal/internal/game/dispenser"
	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/player"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/observability"
	"github.com/cory-johannsen/arsenal/internal/scripting"
	"github.com/cory-johannsen/arsenal/internal/server"
	"github.com/cory-johannsen/arsenal/internal/sim"
)

// weaponExtents is the half-size of a held weapon sprite in world units.
var weaponExtents = weapon.Vec2{X: 0.5, Y: 0.25}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting arsenal",
		zap.Duration("step", cfg.Simulation.Step()),
		zap.Bool("stdin_console", cfg.Console.Stdin),
		zap.Bool("telnet_console", cfg.Console.TelnetEnabled()),
	)

	// Load content
	contentStart := time.Now()
	catalog, err := weapon.LoadCatalog(cfg.Content.WeaponsDir)
	if err != nil {
		logger.Fatal("loading weapon catalog", zap.Error(err))
	}
	defs, err := dispenser.LoadDefs(cfg.Content.DispensersDir)
	if err != nil {
		logger.Fatal("loading dispensers", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", catalog.Len()),
		zap.Int("dispensers", len(defs)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	var scriptMgr *scripting.Manager
	if cfg.Content.ScriptsDir != "" {
		scriptMgr = scripting.NewManager(observability.Component(logger, "scripting"))
		wireScriptCallbacks(scriptMgr, catalog)
		if err := scriptMgr.Load(dispenser.ScriptKey, cfg.Content.ScriptsDir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading dispenser scripts", zap.Error(err))
		}
		defer scriptMgr.Close()
		logger.Info("dispenser scripts loaded", zap.String("dir", cfg.Content.ScriptsDir))
	}

	// Simulation state; touched only on the loop goroutine after Run starts.
	feed := console.NewFeed()
	sched := sim.NewScheduler()
	factory := weapon.NewFactory(catalog, weapon.Env{
		Scheduler:   sched,
		Projectiles: feed,
		Logger:      observability.Component(logger, "weapon"),
	})
	floor := inventory.NewFloor(observability.Component(logger, "floor"))
	alloc := inventory.NewAllocator(floor, feed, observability.Component(logger, "inventory"))
	dispensers, err := dispenser.NewRegistry(defs, dispenser.Deps{
		Factory: factory,
		World:   floor,
		Scripts: scriptMgr,
		Logger:  observability.Component(logger, "dispenser"),
	})
	if err != nil {
		logger.Fatal("building dispensers", zap.Error(err))
	}
	ctrl := player.NewController(player.Deps{
		Clock:         sim.NewClock(cfg.Simulation.Step()),
		Scheduler:     sched,
		Allocator:     alloc,
		Floor:         floor,
		Dispensers:    dispensers,
		Logger:        observability.Component(logger, "player"),
		WeaponExtents: weaponExtents,
	})

	loop := sim.NewLoop(cfg.Simulation.Step(), cfg.Simulation.MaxCatchUp, observability.Component(logger, "sim"))
	loop.OnStep("player", ctrl.Step)

	handler := console.NewHandler(console.Deps{
		Registry:   command.DefaultRegistry(),
		Sim:        loop,
		Controller: ctrl,
		Feed:       feed,
		Style:      telnet.Styler(cfg.Console.Color),
		Logger:     observability.Component(logger, "console"),
	})

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("simulation", &server.FuncService{
		StartFn: loop.Start,
		StopFn:  loop.Stop,
	})
	if cfg.Console.TelnetEnabled() {
		lifecycle.Add("telnet", telnet.NewAcceptor(cfg.Console, handler, observability.Component(logger, "telnet")))
	}
	if cfg.Console.Stdin {
		lifecycle.Add("stdin", console.NewStdinService(handler, console.NewStream(os.Stdin, os.Stdout)))
	}

	logger.Info("arsenal initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("arsenal error", zap.Error(err))
	}
}

// wireScriptCallbacks exposes the catalog and a random source to engine.* Lua modules.
func wireScriptCallbacks(mgr *scripting.Manager, catalog *weapon.Catalog) {
	mgr.LookupWeapon = func(id string) (*scripting.WeaponInfo, bool) {
		p, ok := catalog.Profile(id)
		if !ok {
			return nil, false
		}
		return &scripting.WeaponInfo{
			ID:               p.ID,
			Name:             p.Name,
			Policy:           string(p.Policy),
			MagazineCapacity: p.MagazineCapacity,
		}, true
	}
	mgr.WeaponIDs = func() []string {
		all := catalog.All()
		ids := make([]string, 0, len(all))
		for _, p := range all {
			ids = append(ids, p.ID)
		}
		return ids
	}
	mgr.RandomInt = func(lo, hi int) int {
		if hi <= lo {
			return lo
		}
		return lo + rand.IntN(hi-lo+1)
	}
}
