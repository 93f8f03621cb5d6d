package velocity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"
)

type yamlConfig struct {
	Velocity YAMLSection `yaml:"velocity"`
}

// YAMLSection is the `velocity:` section of offline.yaml. Other packages
// embed it in their own documents.
type YAMLSection struct {
	Stage          string            `yaml:"stage"`
	Debug          bool              `yaml:"debug"`
	StageVariables map[string]string `yaml:"stageVariables"`
}

// Option converts the section into an Option. Empty fields leave the
// defaults untouched.
func (s YAMLSection) Option() Option {
	return OptionFunc(func(o *Options) {
		if s.Stage != "" {
			o.Stage = s.Stage
		}
		o.DebugMode = s.Debug
		if len(s.StageVariables) > 0 {
			if o.StageVariables == nil {
				o.StageVariables = map[string]string{}
			}
			for k, v := range s.StageVariables {
				o.StageVariables[k] = v
			}
		}
	})
}

func optionFromConfigBytes(b []byte) (Option, error) {
	var cfg yamlConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return cfg.Velocity.Option(), nil
}

// WithConfig parses YAML bytes following offline.yaml structure and applies
// the `velocity:` section to Options.
// It panics if the YAML is invalid.
func WithConfig(yamlBytes []byte) Option {
	opt, err := optionFromConfigBytes(yamlBytes)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("velocity.WithConfig: %w", err))
		})
	}
	return opt
}

// WithConfigFile loads a YAML file and applies it to Options.
// It panics if the file cannot be read or YAML is invalid.
func WithConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("velocity.WithConfigFile(%s): %w", path, err))
		})
	}
	return WithConfig(b)
}

// DefaultConfigCandidates returns relative paths that will be checked (in order)
// when searching for a default config.
func DefaultConfigCandidates() []string {
	return []string{
		"offline.yaml",
		filepath.FromSlash("offline/offline.yaml"),
	}
}

// FindDefaultConfigFile searches the working directory, then the executable
// directory, for one of DefaultConfigCandidates.
func FindDefaultConfigFile() (string, error) {
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	for _, dir := range dirs {
		for _, rel := range DefaultConfigCandidates() {
			p := rel
			if dir != "." {
				p = filepath.Join(dir, rel)
			}
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p, nil
			}
		}
	}

	return "", errors.New("offline config not found (expected offline.yaml or offline/offline.yaml)")
}

// WithDefaultConfig finds and loads the default config file.
// It panics if the file cannot be found or read.
func WithDefaultConfig() Option {
	p, err := FindDefaultConfigFile()
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("velocity.WithDefaultConfig: %w", err))
		})
	}
	return WithConfigFile(p)
}
