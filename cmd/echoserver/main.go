package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iaserrat/netprobe/internal/config"
	"github.com/iaserrat/netprobe/internal/echo"
	"github.com/iaserrat/netprobe/internal/logging"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (TOML, or YAML by extension)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	hostID, err := os.Hostname()
	if err != nil || hostID == "" {
		hostID = "unknown"
	}
	logger, err := logging.New(logging.Config{
		Dir:         cfg.Logging.Dir,
		Level:       cfg.Logging.Level,
		MaxMB:       cfg.Logging.MaxMB,
		MaxFiles:    cfg.Logging.MaxFiles,
		ToolName:    "echoserver",
		ToolVersion: version,
		HostID:      hostID,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return echo.NewServer(cfg.Echo.Listen, os.Stdout, logger).Run(ctx)
}
