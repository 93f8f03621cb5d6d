package server

import (
	"testing"

	"github.com/aura-studio/offline/velocity"
)

const testConfig = `
mode: lambda
http:
  address: ":4000"
proxy:
  debug: true
velocity:
  stage: test
`

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()
	if o.Mode != ModeHTTP {
		t.Fatalf("mode = %q, want %q", o.Mode, ModeHTTP)
	}
	if len(o.httpServeOptions()) != 0 || len(o.proxyServeOptions()) != 0 {
		t.Fatal("expected no forwarded options without a handler")
	}
}

func TestWithServeConfig(t *testing.T) {
	o := NewOptions(WithServeConfig([]byte(testConfig)))
	if o.Mode != ModeLambda {
		t.Fatalf("mode = %q, want %q", o.Mode, ModeLambda)
	}
	if len(o.Http) != 1 || len(o.Proxy) != 1 {
		t.Fatalf("forwarded sections = %d/%d, want 1/1", len(o.Http), len(o.Proxy))
	}
}

func TestWithServeConfigBadMode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown mode")
		}
	}()
	WithServeConfig([]byte("mode: grpc\n"))
}

func TestHandlerForwarding(t *testing.T) {
	h := func(*velocity.Context) (string, error) { return "{}", nil }
	o := NewOptions(
		WithHandler(h),
		WithVelocity(velocity.WithStage("prod")),
	)
	if n := len(o.httpServeOptions()); n != 2 {
		t.Fatalf("http options = %d, want 2", n)
	}
	if n := len(o.proxyServeOptions()); n != 2 {
		t.Fatalf("proxy options = %d, want 2", n)
	}
}

func TestServeUnknownMode(t *testing.T) {
	if err := Serve(WithMode("grpc")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
