package velocity

import "github.com/mohae/deepcopy"

type Option interface {
	Apply(o *Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

type Options struct {
	Stage          string
	StageVariables map[string]string
	DebugMode      bool

	// IDSource stamps request ids. Nil selects the process-wide default.
	IDSource IDSource
}

var defaultOptions = &Options{
	Stage:          "dev",
	StageVariables: map[string]string{},
	DebugMode:      false,
}

func NewOptions(opts ...Option) *Options {
	options := deepcopy.Copy(defaultOptions).(*Options)
	options.init(opts...)
	return options
}

func (o *Options) init(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}
}

func WithStage(stage string) Option {
	return OptionFunc(func(o *Options) {
		o.Stage = stage
	})
}

// WithStageVariables replaces the stage variable mapping. The mapping is
// handed to templates as is.
func WithStageVariables(vars map[string]string) Option {
	return OptionFunc(func(o *Options) {
		o.StageVariables = vars
	})
}

func WithStageVariable(key, value string) Option {
	return OptionFunc(func(o *Options) {
		if o.StageVariables == nil {
			o.StageVariables = map[string]string{}
		}
		o.StageVariables[key] = value
	})
}

func WithDebugMode(debug bool) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = debug
	})
}

func WithIDSource(src IDSource) Option {
	return OptionFunc(func(o *Options) {
		o.IDSource = src
	})
}
