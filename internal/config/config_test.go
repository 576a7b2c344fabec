package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
train_images: data/train
train_labels: data/train.csv
resize_dim: 32
num_classes: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ResizeDim != 32 || cfg.NumClasses != 10 {
		t.Fatalf("unexpected dims: %+v", cfg)
	}
	if cfg.BlurKernel != 9 || cfg.UnsharpAmount != 1.5 {
		t.Fatalf("sharpening defaults not applied: kernel=%d amount=%g", cfg.BlurKernel, cfg.UnsharpAmount)
	}
	if cfg.BatchSize != 32 || cfg.Epochs != 10 || cfg.PreviewPerRow != 10 {
		t.Fatalf("training defaults not applied: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, `
train_images: data/train
num_classes: 10
img_size: 32
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing classes", Config{TrainImages: "x"}, "num_classes"},
		{"missing images", Config{NumClasses: 10}, "train_images"},
		{"negative resize", Config{TrainImages: "x", NumClasses: 10, ResizeDim: -1}, "resize_dim"},
		{"even kernel", Config{TrainImages: "x", NumClasses: 10, BlurKernel: 8}, "blur_kernel"},
		{"bad fraction", Config{TrainImages: "x", NumClasses: 10, ValidFraction: 1}, "valid_fraction"},
		{"test without labels", Config{TrainImages: "x", NumClasses: 10, TestImages: "y"}, "train_labels"},
		{"submission without test", Config{TrainImages: "x", NumClasses: 10, SubmissionPath: "s.csv"}, "submission_path"},
		{"bad level", Config{TrainImages: "x", NumClasses: 10, LogLevel: "loud"}, "log_level"},
		{"ok", Config{TrainImages: "x", NumClasses: 50}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Config{TrainImages: "a", NumClasses: 10, ResizeDim: 32}
	cfg.ApplyOverrides(Overrides{TrainImages: "b", NumClasses: 50, Seed: 7})
	if cfg.TrainImages != "b" || cfg.NumClasses != 50 || cfg.Seed != 7 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ResizeDim != 32 {
		t.Fatalf("zero override must keep resize_dim, got %d", cfg.ResizeDim)
	}
}
