package proxy

import "github.com/aura-studio/offline/velocity"

type ServeOption interface {
	apply(*serveOptionBag)
}

type serveOptionBag struct {
	proxy    []Option
	velocity []velocity.Option
}

func (b *serveOptionBag) apply(opts ...ServeOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(b)
		}
	}
}

type proxyServeOption struct{ opt Option }

func (o proxyServeOption) apply(b *serveOptionBag) {
	if o.opt != nil {
		b.proxy = append(b.proxy, o.opt)
	}
}

type velocityServeOption struct{ opt velocity.Option }

func (o velocityServeOption) apply(b *serveOptionBag) {
	if o.opt != nil {
		b.velocity = append(b.velocity, o.opt)
	}
}

func Proxy(opt Option) ServeOption { return proxyServeOption{opt: opt} }

func Velocity(opt velocity.Option) ServeOption { return velocityServeOption{opt: opt} }
