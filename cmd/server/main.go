package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nenadlazic8/zinga/internal/config"
	"github.com/nenadlazic8/zinga/internal/logger"
	"github.com/nenadlazic8/zinga/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	zlog, err := logger.New(*debug)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	srv, err := server.New(cfg, zlog)
	if err != nil {
		zlog.Fatalw("server init failed", "err", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Infow("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			zlog.Warnw("shutdown", "err", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		zlog.Fatalw("server failed", "err", err)
	}
}
