// Package server starts the offline gateway in the mode the configuration
// asks for: a local HTTP listener or a Lambda proxy integration.
package server

import (
	"fmt"

	"github.com/aura-studio/offline/http"
	"github.com/aura-studio/offline/proxy"
)

func Serve(opts ...Option) error {
	options := NewOptions(opts...)

	switch options.Mode {
	case ModeLambda:
		proxy.Serve(options.proxyServeOptions()...)
		return nil
	case ModeHTTP, "":
		return http.Serve(options.httpServeOptions()...)
	default:
		return fmt.Errorf("server: unrecognized mode %q", options.Mode)
	}
}

func Close() error {
	if err := http.Close(); err != nil {
		return err
	}
	proxy.Close()
	return nil
}
