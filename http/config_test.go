package http

import (
	"os"
	"path/filepath"
	"testing"
)

const serveConfig = `
http:
  address: ":4100"
  cors: true
velocity:
  stage: beta
  stageVariables:
    bucket: assets
`

func TestWithConfig(t *testing.T) {
	o := NewOptions(WithConfig([]byte(serveConfig)))
	if o.Address != ":4100" || !o.CorsMode || o.DebugMode {
		t.Errorf("Options = %+v", o)
	}
}

func TestWithConfig_KeepsDefaultAddress(t *testing.T) {
	o := NewOptions(WithConfig([]byte("http:\n  debug: true\n")))
	if o.Address != ":3000" || !o.DebugMode {
		t.Errorf("Options = %+v", o)
	}
}

func TestWithServeConfig(t *testing.T) {
	e := NewEngine(WithServeConfig([]byte(serveConfig)))
	if e.Address != ":4100" || !e.CorsMode {
		t.Errorf("http options = %+v", e.Options)
	}
	if e.Velocity.Stage != "beta" || e.Velocity.StageVariables["bucket"] != "assets" {
		t.Errorf("velocity options = %+v", e.Velocity)
	}
}

func TestWithServeConfig_InvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid YAML")
		}
	}()
	NewEngine(WithServeConfig([]byte("http: [")))
}

func TestWithServeConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "offline.yaml")
	if err := os.WriteFile(p, []byte(serveConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(WithServeConfigFile(p))
	if e.Velocity.Stage != "beta" {
		t.Errorf("Stage = %q", e.Velocity.Stage)
	}
}

func TestWithDefaultServeConfig_Missing(t *testing.T) {
	chdirForTest(t, t.TempDir())
	defer func() {
		if recover() == nil {
			t.Error("expected panic when no default config exists")
		}
	}()
	NewEngine(WithDefaultServeConfig())
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains:
// it changes the working directory and restores it when the test ends.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
