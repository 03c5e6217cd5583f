// Package main provides the entry point for the marketplace backend node.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-backend/internal/aggregate"
	"marketplace-backend/internal/chain"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/monitor"
	"marketplace-backend/internal/profile"
	"marketplace-backend/internal/store"
	"marketplace-backend/internal/tally"
	"marketplace-backend/internal/transport"
	"marketplace-backend/internal/tui"

	dbpkg "marketplace-backend/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	// Try to load .env from CWD if present; otherwise use environment as-is
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}

	cfg := config.Load()

	// If debug logs are enabled, write them to file to avoid interfering with TUI
	var logWriter io.Writer = os.Stderr
	if cfg.Debug {
		logFile, err := os.OpenFile("marketd.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			logWriter = logFile
			fmt.Fprintf(os.Stderr, "Debug logs written to marketd.log\n")
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to open log file, logs will go to stderr (may interfere with TUI): %v\n", err)
		}
	}

	log := logger.NewWithWriter(cfg.Debug, logWriter)

	fmt.Printf("Marketplace node starting...\n")
	fmt.Printf("Config loaded: %s\n", cfg.DebugString())
	fmt.Printf("Loading...\n")

	gormDB, err := dbpkg.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if gormDB != nil {
		log.Printf("DB connected")
	} else {
		log.Printf("DATABASE_URL not provided, using in-memory sqlite")
		gormDB, err = dbpkg.OpenMemory()
		if err != nil {
			log.Fatalf("failed to open in-memory database: %v", err)
		}
	}
	if err := dbpkg.AutoMigrate(gormDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Printf("Migrations applied")

	st := store.New(gormDB)
	hasher := hashing.NewHasher(hashing.ParseScheme(cfg.DigestScheme))
	verifier := hashing.NewVerifier(hasher)

	var heights monitor.HeightSource
	if rpcSource, err := chain.NewRPCSource(cfg.RPCURL, cfg.WSURL()); err == nil {
		heights = rpcSource
	} else {
		log.Printf("chain RPC unavailable, tally snapshots stamp height 0: %v", err)
		heights = chain.NewStaticSource(0)
	}

	tallyEngine := tally.New(st, heights, log)
	coord := aggregate.New(st, hasher, tallyEngine, log)

	loopback := transport.NewLoopback(log)
	listener := transport.NewListener(coord, st, tallyEngine, verifier, log)
	listener.Attach(loopback)

	profiles := profile.NewResolver(cfg.ProfileAPIURL)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create channel for TUI updates (TUI is always enabled)
	tuiUpdateCh := make(chan interface{}, monitor.TUIChannelBufferSize)
	// Start TUI in a goroutine
	go func() {
		if err := tui.Run(tuiUpdateCh); err != nil {
			log.Printf("TUI error: %v", err)
		}
		// TUI exited, cancel context to trigger shutdown
		cancel()
	}()

	mon := monitor.New(cfg, st, heights, profiles, tuiUpdateCh, log)
	monDone := make(chan struct{})
	go func() {
		defer close(monDone)
		if err := mon.Run(ctx); err != nil {
			log.Printf("monitor stopped: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	// Wait for the monitor to stop, then close the TUI update channel
	<-monDone
	close(tuiUpdateCh)
	// Give TUI a moment to process the close and quit
	time.Sleep(monitor.TUICloseDelay)

	// Ensure logs flushed in some environments
	_ = os.Stderr.Sync()
	_ = os.Stdout.Sync()
}
