package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testSettings struct {
	Name    string        `envconfig:"NAME" required:"true"`
	Slot    int           `envconfig:"SLOT" default:"60"`
	Refresh time.Duration `envconfig:"REFRESH" default:"30s"`
}

func TestProcessWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	if err := os.WriteFile(file, []byte("CFGTEST_NAME=courts\nCFGTEST_SLOT=90\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("CFGTEST_NAME")
		_ = os.Unsetenv("CFGTEST_SLOT")
	})

	if err := LoadDotEnv(file, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	var s testSettings
	if err := Process("CFGTEST", &s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Name != "courts" || s.Slot != 90 || s.Refresh != 30*time.Second {
		t.Fatalf("unexpected settings: %+v", s)
	}
}
