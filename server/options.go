package server

import (
	"github.com/aura-studio/offline/http"
	"github.com/aura-studio/offline/proxy"
	"github.com/aura-studio/offline/velocity"
)

const (
	ModeHTTP   = "http"
	ModeLambda = "lambda"
)

// Handler renders a response body from the template context. It is served
// by whichever mode is selected.
type Handler func(*velocity.Context) (string, error)

type Option interface {
	Apply(*Options)
}

type Options struct {
	Mode     string
	Handler  Handler
	Http     []http.ServeOption
	Proxy    []proxy.ServeOption
	Velocity []velocity.Option
}

type serveOptionFunc func(*Options)

func (f serveOptionFunc) Apply(o *Options) { f(o) }

func NewOptions(opts ...Option) *Options {
	options := &Options{Mode: ModeHTTP}
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(options)
		}
	}
	return options
}

func WithMode(mode string) Option {
	return serveOptionFunc(func(o *Options) {
		o.Mode = mode
	})
}

// WithHandler serves h for every path and method in http mode and for every
// event in lambda mode.
func WithHandler(h Handler) Option {
	return serveOptionFunc(func(o *Options) {
		o.Handler = h
	})
}

func WithHttp(opts ...http.ServeOption) Option {
	return serveOptionFunc(func(o *Options) {
		o.Http = append(o.Http, opts...)
	})
}

func WithProxy(opts ...proxy.ServeOption) Option {
	return serveOptionFunc(func(o *Options) {
		o.Proxy = append(o.Proxy, opts...)
	})
}

func WithVelocity(opts ...velocity.Option) Option {
	return serveOptionFunc(func(o *Options) {
		o.Velocity = append(o.Velocity, opts...)
	})
}

func (o *Options) httpServeOptions() []http.ServeOption {
	opts := append([]http.ServeOption{}, o.Http...)
	for _, v := range o.Velocity {
		opts = append(opts, v)
	}
	if o.Handler != nil {
		opts = append(opts, http.WithRoute("ANY", "/*proxy", http.Handler(o.Handler)))
	}
	return opts
}

func (o *Options) proxyServeOptions() []proxy.ServeOption {
	opts := append([]proxy.ServeOption{}, o.Proxy...)
	for _, v := range o.Velocity {
		opts = append(opts, proxy.Velocity(v))
	}
	if o.Handler != nil {
		opts = append(opts, proxy.Proxy(proxy.WithHandler(proxy.Handler(o.Handler))))
	}
	return opts
}
