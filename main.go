// Command pcb-drc runs design-rule checks over an exported board snapshot
// and writes a violation report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pcb-drc/internal/drc"
	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
	"pcb-drc/internal/version"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "Path to exported board snapshot (JSON)")
	rulesPath := flag.String("rules", "", "Path to rule set (YAML or JSON)")
	reportPath := flag.String("report", "", "Write report JSON to this path (default stdout)")
	workers := flag.Int("workers", 0, "Parallel rule workers (0 = all CPUs)")
	fillClearance := flag.Bool("fill-clearance", false, "Also check clearance against rectangular fills (bounding-box geometry, may false-positive)")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *snapshotPath == "" || *rulesPath == "" {
		fmt.Println("Usage: pcb-drc -snapshot board.json -rules rules.yaml [-report out.json]")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	snap, err := snapshot.NewFileProvider(*snapshotPath).LoadSnapshot()
	if err != nil {
		logger.Error("failed to load snapshot", "path", *snapshotPath, "err", err)
		os.Exit(1)
	}
	ruleSet, err := rules.LoadFile(*rulesPath)
	if err != nil {
		logger.Error("failed to load rules", "path", *rulesPath, "err", err)
		os.Exit(1)
	}
	logger.Info("inputs loaded",
		"objects", snap.ObjectCount(),
		"nets", len(snap.Nets),
		"rules", len(ruleSet))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := drc.New(drc.Config{
		Logger:             logger,
		Workers:            *workers,
		CheckFillClearance: *fillClearance,
	})
	result, err := engine.Run(ctx, snap, ruleSet)
	if err != nil {
		logger.Warn("run interrupted; report contains completed checks only", "err", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("failed to encode report", "err", err)
		os.Exit(1)
	}
	if *reportPath != "" {
		if err := os.WriteFile(*reportPath, data, 0o644); err != nil {
			logger.Error("failed to write report", "path", *reportPath, "err", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(string(data))
	}

	if result.Summary.Errors > 0 {
		os.Exit(1)
	}
}
