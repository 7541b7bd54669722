package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	BackendExec    = "exec"
	BackendICMP    = "icmp"
	BackendProbing = "probing"

	FormatText  = "text"
	FormatTable = "table"
)

type Config struct {
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	HTTP    HTTPConfig    `toml:"http" yaml:"http"`
	Ping    PingConfig    `toml:"ping" yaml:"ping"`
	DNS     DNSConfig     `toml:"dns" yaml:"dns"`
	Echo    EchoConfig    `toml:"echo" yaml:"echo"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
}

// LoggingConfig controls diagnostics. Dir is optional; when empty only
// stderr receives log output.
type LoggingConfig struct {
	Dir      string `toml:"dir" yaml:"dir"`
	Level    string `toml:"level" yaml:"level"`
	MaxMB    int    `toml:"max_mb" yaml:"max_mb"`
	MaxFiles int    `toml:"max_files" yaml:"max_files"`
}

// HTTPConfig describes the HTTP probe. TimeoutMS of 0 disables the
// client timeout.
type HTTPConfig struct {
	Port      int    `toml:"port" yaml:"port"`
	Path      string `toml:"path" yaml:"path"`
	TimeoutMS int    `toml:"timeout_ms" yaml:"timeout_ms"`
}

type PingConfig struct {
	Backend    string `toml:"backend" yaml:"backend"`
	Count      int    `toml:"count" yaml:"count"`
	TimeoutMS  int    `toml:"timeout_ms" yaml:"timeout_ms"`
	Privileged bool   `toml:"privileged" yaml:"privileged"`
}

type DNSConfig struct {
	Resolvers []string `toml:"resolvers" yaml:"resolvers"`
	TimeoutMS int      `toml:"timeout_ms" yaml:"timeout_ms"`
}

type EchoConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
}

type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is given. It matches
// the fixed behavior of the interactive prober: port 3000, path /test and
// five pings.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			MaxMB:    10,
			MaxFiles: 3,
		},
		HTTP: HTTPConfig{
			Port: 3000,
			Path: "/test",
		},
		Ping: PingConfig{
			Backend:   BackendExec,
			Count:     5,
			TimeoutMS: 2000,
		},
		DNS: DNSConfig{
			TimeoutMS: 2000,
		},
		Echo: EchoConfig{
			Listen: ":3000",
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// Load reads path on top of Default. An empty path yields the defaults.
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, fmt.Errorf("config file not found: %w", err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			data, err := os.ReadFile(path)
			if err != nil {
				return cfg, fmt.Errorf("read config: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config: %w", err)
			}
		default:
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config: %w", err)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []string

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level %q is not a valid level", c.Logging.Level))
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if c.Logging.MaxMB <= 0 {
			errs = append(errs, "logging.max_mb must be > 0")
		}
		if c.Logging.MaxFiles <= 0 {
			errs = append(errs, "logging.max_files must be > 0")
		}
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, "http.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(c.HTTP.Path, "/") {
		errs = append(errs, "http.path must start with /")
	}
	if c.HTTP.TimeoutMS < 0 {
		errs = append(errs, "http.timeout_ms must be >= 0")
	}
	switch c.Ping.Backend {
	case BackendExec, BackendICMP, BackendProbing:
	default:
		errs = append(errs, fmt.Sprintf("ping.backend must be one of %s, %s, %s", BackendExec, BackendICMP, BackendProbing))
	}
	if c.Ping.Count < 1 {
		errs = append(errs, "ping.count must be >= 1")
	}
	if c.Ping.TimeoutMS <= 0 {
		errs = append(errs, "ping.timeout_ms must be > 0")
	}
	if c.DNS.TimeoutMS <= 0 {
		errs = append(errs, "dns.timeout_ms must be > 0")
	}
	for i, r := range c.DNS.Resolvers {
		if strings.TrimSpace(r) == "" {
			errs = append(errs, fmt.Sprintf("dns.resolvers[%d] is empty", i))
		}
	}
	if strings.TrimSpace(c.Echo.Listen) == "" {
		errs = append(errs, "echo.listen is required")
	}
	switch c.Output.Format {
	case FormatText, FormatTable:
	default:
		errs = append(errs, fmt.Sprintf("output.format must be %s or %s", FormatText, FormatTable))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}
