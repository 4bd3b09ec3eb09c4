package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ngrash/go-zonedb/internal/config"
	"github.com/ngrash/go-zonedb/tzenc"
)

const model = `
version: 2024a
policies:
  US:
    - {from: 1967, to: 2006, in: 4, on: {form: last, weekday: 0}, at: {time: 2h}, save: 1h, letter: D}
    - {from: 2007, to: 9999, in: 3, on: {form: after, num: 8, weekday: 0}, at: {time: 2h}, save: 1h, letter: D}
    - {from: 2007, to: 9999, in: 11, on: {form: after, num: 1, weekday: 0}, at: {time: 2h}, save: 0s, letter: S}
zones:
  America/New_York:
    - {offset: -4h56m2s, format: LMT, until: {year: 1883, month: 11, day: {num: 18}, time: {time: 12h3m58s}}}
    - {offset: -5h, rules: {form: name, name: US}, format: E%sT}
removed_zones:
  US/Pacific-New: removed in 2020b
`

func encodeSnapshot(t *testing.T, mode tzenc.Mode, compress bool) string {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(input, []byte(model), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewDefaultConfig()
	cfg.Encoding.Mode = mode
	cfg.Input.Path = input
	cfg.Output.Path = filepath.Join(dir, "zonedb.snap")
	cfg.Output.Compress = compress
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := encodeFile(cfg, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("encodeFile() error: %v", err)
	}
	return cfg.Output.Path
}

func TestEncodeAndInfo(t *testing.T) {
	db, err := readSnapshot(encodeSnapshot(t, tzenc.Extended, true))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printInfo(&buf, db, true)
	out := buf.String()
	for _, want := range []string{
		"version     = 2024a",
		"mode        = Extended",
		"US/Pacific-New: removed in 2020b",
		"Policy US (3 rules",
		"Zone America/New_York (2 eras",
		`{-20, US, 0, "E%T", 127, 1, 1, 0, 'w'}`,
		`"E%T"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("printInfo() output does not contain %q:\n%s", want, out)
		}
	}
}

func TestDiff(t *testing.T) {
	a, err := readSnapshot(encodeSnapshot(t, tzenc.Basic, false))
	if err != nil {
		t.Fatal(err)
	}
	b, err := readSnapshot(encodeSnapshot(t, tzenc.Basic, true))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if printDiff(&buf, a, b) {
		t.Errorf("printDiff() of equal snapshots reported differences:\n%s", buf.String())
	}

	c, err := readSnapshot(encodeSnapshot(t, tzenc.Extended, false))
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if !printDiff(&buf, a, c) {
		t.Error("printDiff() of Basic and Extended snapshots reported no differences")
	}
	if !strings.Contains(buf.String(), "snapshots are different") {
		t.Errorf("printDiff() output = %q", buf.String())
	}
}

func TestEncodeFile_MissingInput(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Input.Path = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.snap")
	if err := encodeFile(cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Error("encodeFile() with a missing input succeeded")
	}
}
