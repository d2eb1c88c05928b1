package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pharmadocs/internal/config"
)

func newTestApp(t *testing.T, opts *options) (*app, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	p := filepath.Join(root, "IBD製剤", "自社", "製品C", "c.xml")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(`<r>1. 効能</r>`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		DataDir:      root,
		ProductTypes: []string{"血漿分画製剤", "IBD製剤"},
		CompanyTypes: []string{"自社", "他社"},
	}
	if opts == nil {
		opts = &options{Format: "markdown"}
	}
	var out bytes.Buffer
	return newApp(cfg, opts, &out, slog.New(slog.NewTextHandler(io.Discard, nil))), &out
}

func TestProductsCommand(t *testing.T) {
	a, out := newTestApp(t, nil)
	if err := a.products(); err != nil {
		t.Fatal(err)
	}
	want := "【IBD製剤】\n  自社: 1製品 (製品C)\n  他社: 0製品\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestLoadCommand(t *testing.T) {
	a, out := newTestApp(t, nil)
	if err := a.load(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[電子添文] IBD製剤/自社/製品C/c.xml pages=- sections=1") {
		t.Errorf("unexpected output %q", out.String())
	}

	a, _ = newTestApp(t, &options{ProductType: "IBD製剤"})
	if err := a.load(); err == nil {
		t.Error("expected error when only one of the pair is given")
	}
}

func TestStatsCommand(t *testing.T) {
	a, out := newTestApp(t, nil)
	if err := a.stats(); err != nil {
		t.Fatal(err)
	}
	var s map[string]any
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s["total_docs"] != float64(1) {
		t.Errorf("unexpected stats %v", s)
	}
}

func TestReportCommand(t *testing.T) {
	a, out := newTestApp(t, &options{Format: "html"})
	if err := a.report(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<h1>") {
		t.Errorf("expected html output, got %q", out.String())
	}

	a, _ = newTestApp(t, &options{Format: "pdf"})
	if err := a.report(); err == nil {
		t.Error("expected error for unknown format")
	}
}
