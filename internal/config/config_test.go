package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-zonedb/tzcode"
	"github.com/ngrash/go-zonedb/tzenc"
	"github.com/ngrash/go-zonedb/tzmem"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if diff := cmp.Diff(tzcode.DefaultConfig(), cfg.Encoding.Codec()); diff != "" {
		t.Errorf("Codec() mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Encoding.Options()) != 0 {
		t.Error("default config should not override sizes")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("ZONEDB_RELEASE", "2024a")
	path := writeConfig(t, `
log:
  level: debug
encoding:
  mode: extended
  epoch_year: 2050
  granularity: 1m
  sizes:
    rule: {bits8: 9, bits32: 9}
    policy: {bits8: 6, bits32: 10}
    letter_ref: {bits8: 2, bits32: 4}
    era: {bits8: 12, bits32: 16}
    info: {bits8: 5, bits32: 9}
input:
  path: testdata/${ZONEDB_RELEASE}.yaml
output:
  compress: true
`)

	cfg := NewDefaultConfig()
	if err := Load(path, cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := NewDefaultConfig()
	want.Log.Level = slog.LevelDebug
	want.Encoding.Mode = tzenc.Extended
	want.Encoding.EpochYear = 2050
	want.Encoding.Granularity = time.Minute
	want.Encoding.Sizes = &tzmem.Sizes{
		Rule:      tzmem.Footprint{Bits8: 9, Bits32: 9},
		Policy:    tzmem.Footprint{Bits8: 6, Bits32: 10},
		LetterRef: tzmem.Footprint{Bits8: 2, Bits32: 4},
		Era:       tzmem.Footprint{Bits8: 12, Bits32: 16},
		Info:      tzmem.Footprint{Bits8: 5, Bits32: 9},
	}
	want.Input.Path = "testdata/2024a.yaml"
	want.Output.Compress = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Encoding.Options()) != 1 {
		t.Error("size override should become an encoder option")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown mode", "encoding:\n  mode: fancy\n", "invalid mode"},
		{"granularity", "encoding:\n  granularity: 7m\n", "divide one hour"},
		{"sentinel", "encoding:\n  max_year: 1999\n", "max year"},
		{"sizes", "encoding:\n  sizes:\n    rule: {bits8: 9, bits32: 9}\n", "must be positive"},
		{"input", "input:\n  path: \"\"\n", "cannot be blank"},
		{"log level", "log:\n  level: loud\n", "loud"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Load(writeConfig(t, tc.content), NewDefaultConfig())
			if err == nil {
				t.Fatal("Load() = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load() = %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), NewDefaultConfig()); err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
}
