package http

import (
	"github.com/mohae/deepcopy"
)

type Option interface {
	Apply(o *Options)
}

type HttpOption func(*Options)

func (f HttpOption) Apply(o *Options) { f(o) }

type Options struct {
	// Http Options
	Address   string
	DebugMode bool
	CorsMode  bool
	Routes    []Route
}

var defaultOptions = &Options{
	Address:   ":3000",
	DebugMode: false,
	CorsMode:  false,
	Routes:    []Route{},
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

// -------------- Http Options ----------------
func WithAddress(addr string) Option {
	return HttpOption(func(o *Options) {
		o.Address = addr
	})
}

func WithDebugMode() Option {
	return HttpOption(func(o *Options) {
		o.DebugMode = true
	})
}

func WithCors() Option {
	return HttpOption(func(o *Options) {
		o.CorsMode = true
	})
}

// WithRoute registers handler for method and a gin style path such as
// /users/:id or /files/*path. An empty or "ANY" method matches every method.
func WithRoute(method, path string, handler Handler) Option {
	return HttpOption(func(o *Options) {
		o.Routes = append(o.Routes, Route{Method: method, Path: path, Handler: handler})
	})
}
