package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mr1hm/go-crop-advisor/internal/config"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

func testOptions() options {
	return options{
		district:    "coimbatore",
		crop:        "Tomato",
		rainfall:    700,
		temperature: 25,
		ph:          6.5,
		soil:        "loamy",
		fertilizer:  "medium",
		technology:  "moderate",
	}
}

func testConfig() *config.Config {
	return &config.Config{Worker: config.WorkerConfig{Count: 2, BufferSize: 50}}
}

func TestRun_Outlook(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testConfig(), testOptions(), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"Tomato in Coimbatore", "Adjusted yield", "optimal conditions", "Net profit"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_TopPicksOnly(t *testing.T) {
	o := testOptions()
	o.crop = ""
	o.top = 3

	var out bytes.Buffer
	if err := run(context.Background(), testConfig(), o, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2+3 {
		t.Errorf("expected title, header and 3 rows, got %d lines:\n%s", len(lines), out.String())
	}
}

func TestRun_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	o := testOptions()
	o.sweep = "temperature"
	o.chart = filepath.Join(dir, "sweep.png")
	o.report = filepath.Join(dir, "outlook.xlsx")

	var out bytes.Buffer
	if err := run(context.Background(), testConfig(), o, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, path := range []string{o.chart, o.report} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("expected %s to be written: %v", path, err)
		}
	}
	if !strings.Contains(out.String(), "temperature sweep") {
		t.Error("expected sweep table in output")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*options)
	}{
		{"unknown district", func(o *options) { o.district = "Atlantis" }},
		{"unknown crop", func(o *options) { o.crop = "Saffron" }},
		{"unknown fertilizer", func(o *options) { o.fertilizer = "extreme" }},
		{"out of domain", func(o *options) { o.ph = 11 }},
		{"unknown sweep", func(o *options) { o.sweep = "humidity" }},
	}
	for _, tt := range tests {
		o := testOptions()
		tt.modify(&o)
		if err := run(context.Background(), testConfig(), o, &bytes.Buffer{}); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}

	o := testOptions()
	o.district = "Atlantis"
	err := run(context.Background(), testConfig(), o, &bytes.Buffer{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
