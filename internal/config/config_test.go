package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/tagkit/pkg/diag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Serve.Port != DefaultPort {
		t.Errorf("Serve.Port = %d, want %d", cfg.Serve.Port, DefaultPort)
	}
	if cfg.Serve.Host != DefaultHost {
		t.Errorf("Serve.Host = %q, want %q", cfg.Serve.Host, DefaultHost)
	}
	if cfg.Scheduler.MaxFlushPasses != DefaultMaxFlushPasses {
		t.Errorf("Scheduler.MaxFlushPasses = %d", cfg.Scheduler.MaxFlushPasses)
	}
	if cfg.DiagnosticFormat() != diag.FormatText || !cfg.Diagnostics.Color {
		t.Errorf("Diagnostics = %+v", cfg.Diagnostics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadJSONWithComments(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(tmpDir); !IsNotFound(err) {
		t.Errorf("Load(empty dir) = %v, want not found", err)
	}

	writeFile(t, tmpDir, "tagkit.json", `{
  // playground
  "serve": {
    "port": 8080,
    "allowedOrigins": ["http://localhost:5173",],
  },
  /* batching */
  "scheduler": {"maxFlushPasses": 4},
  "diagnostics": {"format": "json", "color": false},
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Serve.Port != 8080 {
		t.Errorf("Serve.Port = %d, want 8080", cfg.Serve.Port)
	}
	if cfg.Serve.Host != DefaultHost {
		t.Errorf("Serve.Host = %q, want default", cfg.Serve.Host)
	}
	if diff := cmp.Diff([]string{"http://localhost:5173"}, cfg.Serve.AllowedOrigins); diff != "" {
		t.Errorf("AllowedOrigins mismatch:\n%s", diff)
	}
	if cfg.Scheduler.MaxFlushPasses != 4 {
		t.Errorf("MaxFlushPasses = %d", cfg.Scheduler.MaxFlushPasses)
	}
	if cfg.DiagnosticFormat() != diag.FormatJSON || cfg.Diagnostics.Color {
		t.Errorf("Diagnostics = %+v", cfg.Diagnostics)
	}
	if cfg.Render.Indent != "  " {
		t.Errorf("Render.Indent = %q, want default", cfg.Render.Indent)
	}
	if cfg.Dir() != tmpDir || cfg.Path() != filepath.Join(tmpDir, "tagkit.json") {
		t.Errorf("Path = %q, Dir = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "tagkit.yaml", `
render:
  pretty: true
  indent: "\t"
serve:
  host: 0.0.0.0
  port: 9000
metrics:
  namespace: demo
tracing:
  tracerName: ""
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Render.Pretty || cfg.Render.Indent != "\t" {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("Address = %q", cfg.Address())
	}
	if cfg.URL() != "http://0.0.0.0:9000" {
		t.Errorf("URL = %q", cfg.URL())
	}
	if cfg.Metrics.Namespace != "demo" {
		t.Errorf("Namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("empty tracer name should fall back to default, got %q", cfg.Tracing.TracerName)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
	}{
		{"bad json", "tagkit.json", `{"serve": {"port": "high"}}`, "TK120"},
		{"bad yaml", "tagkit.yaml", "serve: [unclosed", "TK120"},
		{"unknown extension", "tagkit.toml", "x = 1", "TK120"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.file, tt.content)
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantCode) {
				t.Errorf("LoadFile error = %v, want %s", err, tt.wantCode)
			}
		})
	}

	_, err := LoadFile(filepath.Join(tmpDir, "missing.json"))
	if !IsNotFound(err) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Serve.Port = 0 }, false},
		{"port too high", func(c *Config) { c.Serve.Port = 70000 }, true},
		{"negative port", func(c *Config) { c.Serve.Port = -1 }, true},
		{"zero passes", func(c *Config) { c.Scheduler.MaxFlushPasses = 0 }, true},
		{"unknown format", func(c *Config) { c.Diagnostics.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "TK120") {
				t.Errorf("Validate() error %q should carry TK120", err)
			}
		})
	}
}

func TestFindProjectRootAndDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pages", "demo")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if Exists(root) {
		t.Fatal("fresh directory should have no config")
	}
	writeFile(t, root, "tagkit.yml", "serve:\n  port: 7500\n")

	if !Exists(root) {
		t.Fatal("Exists should see tagkit.yml")
	}
	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if found != root {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Serve.Port != 7500 {
		t.Errorf("Discover port = %d", cfg.Serve.Port)
	}
}
