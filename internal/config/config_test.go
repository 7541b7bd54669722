package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.HTTP.Port != 3000 || cfg.HTTP.Path != "/test" {
		t.Fatalf("unexpected http defaults: %+v", cfg.HTTP)
	}
	if cfg.Ping.Count != 5 {
		t.Fatalf("expected 5 pings by default, got %d", cfg.Ping.Count)
	}
	if cfg.Ping.Backend != BackendExec {
		t.Fatalf("expected exec backend, got %q", cfg.Ping.Backend)
	}
	if cfg.Echo.Listen != ":3000" {
		t.Fatalf("expected echo on :3000, got %q", cfg.Echo.Listen)
	}
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "netprobe.toml", `
[http]
port = 8080

[ping]
backend = "probing"
count = 3

[dns]
resolvers = ["127.0.0.1:5353"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.Path != "/test" {
		t.Fatalf("default path lost: %q", cfg.HTTP.Path)
	}
	if cfg.Ping.Backend != BackendProbing || cfg.Ping.Count != 3 {
		t.Fatalf("unexpected ping config: %+v", cfg.Ping)
	}
	if len(cfg.DNS.Resolvers) != 1 || cfg.DNS.Resolvers[0] != "127.0.0.1:5353" {
		t.Fatalf("unexpected resolvers: %v", cfg.DNS.Resolvers)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "netprobe.yaml", `
ping:
  count: 7
output:
  format: table
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Ping.Count != 7 {
		t.Fatalf("expected 7 pings, got %d", cfg.Ping.Count)
	}
	if cfg.Output.Format != FormatTable {
		t.Fatalf("expected table format, got %q", cfg.Output.Format)
	}
}

func TestLoadRejectsZeroPings(t *testing.T) {
	path := writeFile(t, "netprobe.toml", "[ping]\ncount = 0\n")

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for zero pings")
	}
	if !strings.Contains(err.Error(), "ping.count must be >= 1") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadCollectsAllViolations(t *testing.T) {
	path := writeFile(t, "netprobe.toml", `
[http]
port = 0
path = "test"

[ping]
backend = "carrier-pigeon"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"http.port", "http.path", "ping.backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "netprobe.example.toml"))
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	def := Default()
	if cfg.HTTP != def.HTTP || cfg.Ping != def.Ping || cfg.Echo != def.Echo || cfg.Output != def.Output {
		t.Fatalf("example config drifted from defaults:\n%+v\n%+v", cfg, def)
	}
}
