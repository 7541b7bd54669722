package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iaserrat/netprobe/internal/config"
	"github.com/iaserrat/netprobe/internal/logging"
	"github.com/iaserrat/netprobe/internal/probe"
	"github.com/iaserrat/netprobe/internal/session"
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

	if err := run(*configPath, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host, err := promptHost(in, out)
	if err != nil {
		return fmt.Errorf("read host: %w", err)
	}

	httpProber := probe.NewHTTPProber(probe.HTTPConfig{
		Port:    cfg.HTTP.Port,
		Timeout: time.Duration(cfg.HTTP.TimeoutMS) * time.Millisecond,
	}, logger)

	s := session.New(httpProber, newPinger(cfg), session.Options{
		Path:  cfg.HTTP.Path,
		Count: cfg.Ping.Count,
		Table: cfg.Output.Format == config.FormatTable,
		Out:   out,
		Log:   logger,
	})

	// probe failures are reported, not turned into an exit code
	if _, err := s.PerformTest(ctx, host); err != nil {
		return err
	}
	return nil
}

func promptHost(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter server IP or hostname: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func newLogger(cfg config.Config) (*logging.Logger, error) {
	hostID, err := os.Hostname()
	if err != nil || hostID == "" {
		hostID = "unknown"
	}
	return logging.New(logging.Config{
		Dir:         cfg.Logging.Dir,
		Level:       cfg.Logging.Level,
		MaxMB:       cfg.Logging.MaxMB,
		MaxFiles:    cfg.Logging.MaxFiles,
		ToolName:    "netprobe",
		ToolVersion: version,
		HostID:      hostID,
	})
}

func newPinger(cfg config.Config) probe.Pinger {
	timeout := time.Duration(cfg.Ping.TimeoutMS) * time.Millisecond

	switch cfg.Ping.Backend {
	case config.BackendICMP:
		return probe.NewICMPPinger(timeout, newResolver(cfg))
	case config.BackendProbing:
		return probe.NewProbingPinger(timeout, cfg.Ping.Privileged, newResolver(cfg))
	default:
		return probe.NewExecPinger(timeout)
	}
}

func newResolver(cfg config.Config) *probe.Resolver {
	return probe.NewResolver(cfg.DNS.Resolvers, time.Duration(cfg.DNS.TimeoutMS)*time.Millisecond)
}
