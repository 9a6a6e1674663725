package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opendata-univ/barometre/config"
	"github.com/opendata-univ/barometre/dataset"
	"github.com/opendata-univ/barometre/events"
	"github.com/opendata-univ/barometre/logger"
	"github.com/opendata-univ/barometre/server"
	"github.com/opendata-univ/barometre/views"
)

// ============================================================================
// BAROMETRE: French TV news barometer dashboard
// ============================================================================

const version = "1.0.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", "", "Path to the barometer CSV (default: $"+config.DataPathEnv+" or config)")
	configPath := flag.String("config", "", "Path to a YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	pageID := flag.String("page", "", "Compute one page with default selections and print it")
	format := flag.String("format", "json", "Output format for -page: json, pretty, csv")
	precision := flag.Int("precision", -1, "Decimals kept in chart values, 0-6 (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Baromètre JT — airtime of topics in French TV news, 2000–2020

Usage:
  barometre --file barometre.csv
  barometre --file barometre.csv --addr :9000
  barometre --file barometre.csv --page economy --format csv

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  %s    Path to the barometer CSV (also read from .env)

Pages:
`, config.DataPathEnv)
		for _, p := range views.Pages() {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", p.ID, p.Title)
		}
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("barometre %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Config: %v", err)
	}
	if *filePath != "" {
		cfg.DataPath = *filePath
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *precision >= 0 {
		cfg.Dashboard.Precision = *precision
		if err := cfg.Validate(); err != nil {
			fatalf("Config: %v", err)
		}
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fatalf("Logger: %v", err)
	}
	if *pageID != "" {
		// stdout carries the page
		logger.Log.SetOutput(os.Stderr)
	}

	// ── Data ──────────────────────────────────────────────────────────────
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		logger.Log.Errorf("❌ %v", err)
		os.Exit(1)
	}
	env := views.NewEnv(ds, events.Default(), cfg.Dashboard)

	// ── Headless mode ─────────────────────────────────────────────────────
	if *pageID != "" {
		page, err := views.Build(env, nil, *pageID)
		if err != nil {
			fatalf("%v", err)
		}
		switch *format {
		case "csv":
			if err := writePageCSV(os.Stdout, page); err != nil {
				fatalf("Failed to write CSV: %v", err)
			}
		case "json", "pretty":
			if err := writeJSON(os.Stdout, page, *format); err != nil {
				fatalf("Failed to marshal output: %v", err)
			}
		default:
			fatalf("unknown format %q", *format)
		}
		return
	}

	// ── Server ────────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.NewServer(env, cfg.Sessions).Serve(ctx, cfg.ListenAddr); err != nil {
		logger.Log.Errorf("❌ Server: %v", err)
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
