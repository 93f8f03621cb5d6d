package http

import "github.com/aura-studio/offline/velocity"

// ServeOption is either an Option or a velocity.Option.
type ServeOption any

type serveOptionBag struct {
	http     []Option
	velocity []velocity.Option
}

func (b *serveOptionBag) apply(opts ...ServeOption) {
	for _, opt := range opts {
		switch o := opt.(type) {
		case serveConfigOption:
			o.apply(b)
		case Option:
			b.http = append(b.http, o)
		case velocity.Option:
			b.velocity = append(b.velocity, o)
		}
	}
}
