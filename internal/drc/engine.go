package drc

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
)

// Config configures one engine instance. The engine holds no mutable state
// of its own; everything a run needs travels through this value and the
// call arguments.
type Config struct {
	// Logger receives skip diagnostics and run summaries. Nil disables
	// logging.
	Logger *slog.Logger

	// Workers bounds parallel rule evaluation; 0 means NumCPU.
	Workers int

	// CheckFillClearance enables clearance checks of pads/vias against
	// rectangular fills. Fill geometry is bounding-box only, so this check
	// carries known false-positive risk and defaults to off.
	CheckFillClearance bool
}

// Engine runs design-rule checks over immutable board snapshots.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Engine{cfg: cfg, log: log}
}

// runContext is everything one run's checkers share. Built once per run and
// never mutated while checkers execute.
type runContext struct {
	snap        *snapshot.BoardSnapshot
	arena       []object
	index       *spatialIndex
	netsByName  map[string]*snapshot.Net
	compsByName map[string]*snapshot.Component
	metas       []rules.ObjectMeta // Per-arena-index scope metadata
	cfg         *Config
	log         *slog.Logger
}

// checker evaluates every rule of one type against the run context,
// returning that group's violations.
type checker func(rc *runContext, group []rules.Compiled) []Violation

// checkerFor maps each canonical rule type to its checker. Types missing
// here (Other) are inventory-only.
func checkerFor(t rules.Type) checker {
	switch t {
	case rules.Clearance:
		return checkClearance
	case rules.ShortCircuit:
		return checkShortCircuit
	case rules.Width:
		return checkWidth
	case rules.HoleSize:
		return checkHoleSize
	case rules.HoleToHole:
		return checkHoleToHole
	case rules.SolderMaskSliver:
		return checkMaskSliver
	case rules.SilkToSilk:
		return checkSilkToSilk
	case rules.SilkToSolderMask:
		return checkSilkToMask
	case rules.UnroutedNet:
		return checkUnroutedNets
	case rules.NetAntennae:
		return checkNetAntennae
	case rules.DiffPair:
		return checkDiffPairs
	case rules.RoutingTopology:
		return checkTopology
	case rules.ViaStyle:
		return checkViaStyle
	case rules.RoutingCorners:
		return checkCorners
	case rules.RoutingLayers:
		return checkRoutingLayers
	case rules.RoutingPriority:
		return checkRoutingPriority
	case rules.PlaneConnect:
		return checkPlaneConnect
	case rules.Height:
		return checkHeight
	case rules.ModifiedPolygon:
		return checkModifiedPolygon
	default:
		return nil
	}
}

// Run executes every enabled rule against the snapshot and returns the
// aggregated result. It is a pure function of its inputs: no I/O, no
// retained state, deterministic output regardless of worker scheduling.
//
// Cancellation is cooperative with per-rule granularity: a rule group whose
// evaluation had not finished when ctx was cancelled contributes nothing,
// and Run returns the merged results of the groups that completed, along
// with ctx's error.
func (e *Engine) Run(ctx context.Context, snap *snapshot.BoardSnapshot, ruleSet []rules.Rule) (*Result, error) {
	if snap == nil {
		snap = &snapshot.BoardSnapshot{}
	}

	rc := &runContext{
		snap:        snap,
		arena:       buildArena(snap),
		netsByName:  make(map[string]*snapshot.Net, len(snap.Nets)),
		compsByName: make(map[string]*snapshot.Component, len(snap.Components)),
		cfg:         &e.cfg,
		log:         e.log,
	}
	for i := range snap.Nets {
		rc.netsByName[snap.Nets[i].Name] = &snap.Nets[i]
	}
	for i := range snap.Components {
		rc.compsByName[snap.Components[i].Name] = &snap.Components[i]
	}
	rc.index = buildIndex(rc.arena)
	rc.metas = make([]rules.ObjectMeta, len(rc.arena))
	for i := range rc.arena {
		rc.metas[i] = rc.arena[i].meta(rc)
	}

	compiled := rules.CompileAll(ruleSet, snap)
	groups := groupByType(compiled)

	e.log.Debug("drc run starting",
		"objects", len(rc.arena),
		"rules", len(compiled),
		"indexed", rc.index != nil)

	type task struct {
		typ   rules.Type
		check checker
		group []rules.Compiled
	}
	var tasks []task
	for _, t := range sortedTypes(groups) {
		check := checkerFor(t)
		if check == nil {
			e.log.Debug("skipping unrecognized rule type", "type", t.String(),
				"rules", len(groups[t]))
			continue
		}
		tasks = append(tasks, task{typ: t, check: check, group: groups[t]})
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Each task writes its complete output into its own slot; a task that
	// observes cancellation before starting leaves its slot unset so
	// in-flight work is discarded all-or-nothing.
	results := make([][]Violation, len(tasks))
	done := make([]bool, len(tasks))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range tasks {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			vs := tasks[i].check(rc, tasks[i].group)
			if ctx.Err() != nil {
				return nil
			}
			results[i] = vs
			done[i] = true
			return nil
		})
	}
	_ = g.Wait() // Checkers never fail; errors surface as skip diagnostics

	var all []Violation
	for i := range tasks {
		if done[i] {
			all = append(all, results[i]...)
		}
	}

	res := buildResult(all)
	e.log.Info("drc run finished",
		"errors", res.Summary.Errors,
		"warnings", res.Summary.Warnings,
		"passed", res.Summary.Passed)
	return res, ctx.Err()
}

// groupByType buckets compiled rules by canonical type.
func groupByType(compiled []rules.Compiled) map[rules.Type][]rules.Compiled {
	groups := make(map[rules.Type][]rules.Compiled)
	for _, c := range compiled {
		groups[c.Rule.Type] = append(groups[c.Rule.Type], c)
	}
	return groups
}

// sortedTypes returns the group keys in a fixed order so task layout is
// deterministic.
func sortedTypes(groups map[rules.Type][]rules.Compiled) []rules.Type {
	keys := make([]rules.Type, 0, len(groups))
	for t := range groups {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
