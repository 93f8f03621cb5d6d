package proxy

import "github.com/mohae/deepcopy"

type Option interface {
	Apply(o *Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

type Options struct {
	Handler   Handler
	DebugMode bool
	// EventStage lets the stage name and stage variables carried by the
	// event override the configured ones.
	EventStage bool
}

var defaultOptions = &Options{
	DebugMode:  false,
	EventStage: true,
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

func WithHandler(h Handler) Option {
	return OptionFunc(func(o *Options) {
		o.Handler = h
	})
}

func WithDebugMode(debug bool) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = debug
	})
}

func WithEventStage(enabled bool) Option {
	return OptionFunc(func(o *Options) {
		o.EventStage = enabled
	})
}
