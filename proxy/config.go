package proxy

import (
	"fmt"
	"os"

	"github.com/aura-studio/offline/velocity"
	yaml "gopkg.in/yaml.v2"
)

type yamlProxySection struct {
	Debug      bool  `yaml:"debug"`
	EventStage *bool `yaml:"eventStage"`
}

type yamlServeConfig struct {
	Proxy    yamlProxySection      `yaml:"proxy"`
	Velocity *velocity.YAMLSection `yaml:"velocity"`
}

func optionFromProxySection(s yamlProxySection) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = s.Debug
		if s.EventStage != nil {
			o.EventStage = *s.EventStage
		}
	})
}

type serveConfigOption struct {
	proxyOpt    Option
	velocityOpt velocity.Option
	err         error
}

func (o serveConfigOption) apply(b *serveOptionBag) {
	if o.err != nil {
		panic(fmt.Errorf("proxy.WithServeConfig: %w", o.err))
	}
	if o.proxyOpt != nil {
		b.proxy = append(b.proxy, o.proxyOpt)
	}
	if o.velocityOpt != nil {
		b.velocity = append(b.velocity, o.velocityOpt)
	}
}

// WithServeConfig parses YAML bytes following offline.yaml structure and
// applies the `proxy:` and `velocity:` sections.
// It panics on apply if the YAML is invalid.
func WithServeConfig(yamlBytes []byte) ServeOption {
	var cfg yamlServeConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		return serveConfigOption{err: err}
	}

	opt := serveConfigOption{proxyOpt: optionFromProxySection(cfg.Proxy)}
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
		return serveConfigOption{err: fmt.Errorf("proxy.WithServeConfigFile(%s): %w", path, err)}
	}
	return WithServeConfig(b)
}
