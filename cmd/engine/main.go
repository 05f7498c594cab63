package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"kestrel/config"
	"kestrel/logx"
	"kestrel/session"
)

func main() {
	replayFile := pflag.String("replay", "", "replay an events.log-compatible file and print a summary")
	pflag.Parse()

	log, err := logx.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", zap.Error(err))
		os.Exit(1)
	}

	if *replayFile != "" {
		// replay aborts gracefully on a bad file; the error is
		// already reported
		_ = session.Replay(*replayFile, os.Stdout, log)
		return
	}

	session.Demo(os.Stdout)

	fmt.Println("\n--- Running benchmark ---")
	session.Bench(os.Stdout, cfg.BenchEvents)

	fmt.Println("\n--- Running async benchmark ---")
	session.BenchAsync(os.Stdout, cfg.BenchEvents, cfg.QueueCapacity)

	_ = session.REPL(os.Stdin, os.Stdout, log, cfg)
}
