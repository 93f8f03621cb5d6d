package http

import (
	"fmt"

	"github.com/aura-studio/offline/velocity"
)

// WithDefaultConfig finds and loads the default offline.yaml.
// It panics if the file cannot be found or read.
func WithDefaultConfig() Option {
	p, err := velocity.FindDefaultConfigFile()
	if err != nil {
		return HttpOption(func(*Options) {
			panic(fmt.Errorf("http.WithDefaultConfig: %w", err))
		})
	}
	return WithConfigFile(p)
}

// WithDefaultServeConfig finds and loads the default offline.yaml as a
// ServeOption, including its `velocity:` section.
func WithDefaultServeConfig() ServeOption {
	p, err := velocity.FindDefaultConfigFile()
	if err != nil {
		return serveConfigOption{err: fmt.Errorf("http.WithDefaultServeConfig: %w", err)}
	}
	return WithServeConfigFile(p)
}
