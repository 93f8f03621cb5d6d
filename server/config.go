package server

import (
	"fmt"
	"os"

	"github.com/aura-studio/offline/http"
	"github.com/aura-studio/offline/proxy"
	"github.com/aura-studio/offline/velocity"
	yaml "gopkg.in/yaml.v2"
)

type yamlServerConfig struct {
	Mode string `yaml:"mode"`
}

type serveConfigOption struct {
	mode     string
	httpOpt  http.ServeOption
	proxyOpt proxy.ServeOption
}

func (o serveConfigOption) Apply(opts *Options) {
	if o.mode != "" {
		opts.Mode = o.mode
	}
	if o.httpOpt != nil {
		opts.Http = append(opts.Http, o.httpOpt)
	}
	if o.proxyOpt != nil {
		opts.Proxy = append(opts.Proxy, o.proxyOpt)
	}
}

// WithServeConfig parses YAML bytes following offline.yaml structure. The
// top-level `mode` selects http or lambda; the remaining sections are handed
// to the http and proxy packages.
func WithServeConfig(yamlBytes []byte) Option {
	var cfg yamlServerConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		panic(fmt.Errorf("server.WithServeConfig: %w", err))
	}
	switch cfg.Mode {
	case "", ModeHTTP, ModeLambda:
	default:
		panic(fmt.Errorf("server.WithServeConfig: unrecognized mode %q", cfg.Mode))
	}

	return serveConfigOption{
		mode:     cfg.Mode,
		httpOpt:  http.WithServeConfig(yamlBytes),
		proxyOpt: proxy.WithServeConfig(yamlBytes),
	}
}

// WithServeConfigFile loads a YAML file and applies it as Option.
func WithServeConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("server.WithServeConfigFile(%s): %w", path, err))
	}
	return WithServeConfig(b)
}

// WithDefaultServeConfigFile finds and loads the default offline.yaml.
func WithDefaultServeConfigFile() Option {
	p, err := velocity.FindDefaultConfigFile()
	if err != nil {
		panic(fmt.Errorf("server.WithDefaultServeConfigFile: %w", err))
	}
	return WithServeConfigFile(p)
}
