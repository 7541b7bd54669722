package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes human-readable diagnostics to stderr and, when a directory
// is configured, JSON lines to a rotating file.
type Logger struct {
	*logrus.Logger
	file io.WriteCloser
}

type Config struct {
	Dir      string
	Level    string
	MaxMB    int
	MaxFiles int

	ToolName    string
	ToolVersion string
	HostID      string

	// Stderr overrides the console destination. Nil means os.Stderr.
	Stderr io.Writer
}

func New(cfg Config) (*Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = lvl
	}

	out := cfg.Stderr
	if out == nil {
		out = os.Stderr
	}

	base := logrus.New()
	base.Out = out
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	l := &Logger{Logger: base}
	if cfg.Dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	name := cfg.ToolName
	if name == "" {
		name = "netprobe"
	}
	lj := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name+".jsonl"),
		MaxSize:    cfg.MaxMB,
		MaxBackups: cfg.MaxFiles,
		Compress:   false,
	}

	l.file = lj
	base.AddHook(&fileHook{
		writer:    lj,
		formatter: &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano},
		fields: logrus.Fields{
			"tool_name":    name,
			"tool_version": cfg.ToolVersion,
			"host_id":      cfg.HostID,
		},
	})

	return l, nil
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	return l.file.Close()
}
