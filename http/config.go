package http

import (
	"fmt"
	"os"

	"github.com/aura-studio/offline/velocity"
	yaml "gopkg.in/yaml.v2"
)

type yamlHTTPSection struct {
	Address string `yaml:"address"`
	Debug   bool   `yaml:"debug"`
	Cors    bool   `yaml:"cors"`
}

type yamlConfig struct {
	HTTP yamlHTTPSection `yaml:"http"`
}

type yamlServeConfig struct {
	HTTP     yamlHTTPSection       `yaml:"http"`
	Velocity *velocity.YAMLSection `yaml:"velocity"`
}

func optionFromHTTPSection(s yamlHTTPSection) Option {
	return HttpOption(func(o *Options) {
		if s.Address != "" {
			o.Address = s.Address
		}
		o.DebugMode = s.Debug
		o.CorsMode = s.Cors
	})
}

func optionFromConfigBytes(b []byte) (Option, error) {
	var cfg yamlConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return optionFromHTTPSection(cfg.HTTP), nil
}

// WithConfig parses YAML bytes following offline.yaml structure and applies
// the `http:` section to Options.
// It panics if the YAML is invalid.
func WithConfig(yamlBytes []byte) Option {
	opt, err := optionFromConfigBytes(yamlBytes)
	if err != nil {
		return HttpOption(func(*Options) {
			panic(fmt.Errorf("http.WithConfig: %w", err))
		})
	}
	return opt
}

// WithConfigFile loads a YAML file and applies it to Options.
// It panics if the file cannot be read or YAML is invalid.
func WithConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		return HttpOption(func(*Options) {
			panic(fmt.Errorf("http.WithConfigFile(%s): %w", path, err))
		})
	}
	return WithConfig(b)
}

type serveConfigOption struct {
	httpOpt     Option
	velocityOpt velocity.Option
	err         error
}

func (o serveConfigOption) apply(b *serveOptionBag) {
	if o.err != nil {
		panic(fmt.Errorf("http.WithServeConfig: %w", o.err))
	}
	if o.httpOpt != nil {
		b.http = append(b.http, o.httpOpt)
	}
	if o.velocityOpt != nil {
		b.velocity = append(b.velocity, o.velocityOpt)
	}
}

// WithServeConfig parses YAML bytes following offline.yaml structure and
// applies both the `http:` and the `velocity:` sections.
// It panics on apply if the YAML is invalid.
func WithServeConfig(yamlBytes []byte) ServeOption {
	var cfg yamlServeConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		return serveConfigOption{err: err}
	}

	opt := serveConfigOption{httpOpt: optionFromHTTPSection(cfg.HTTP)}
	if cfg.Velocity != nil {
		opt.velocityOpt = cfg.Velocity.Option()
	}
	return opt
}

// WithServeConfigFile loads a YAML file and applies it as ServeOption.
// It panics on apply if the file cannot be read or YAML is invalid.
func WithServeConfigFile(path string) ServeOption {
	b, err := os.ReadFile(path)
	if err != nil {
		return serveConfigOption{err: fmt.Errorf("http.WithServeConfigFile(%s): %w", path, err)}
	}
	return WithServeConfig(b)
}
