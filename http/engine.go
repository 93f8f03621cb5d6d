package http

import (
	"github.com/aura-studio/offline/velocity"
	"github.com/gin-gonic/gin"
)

type Engine struct {
	*Options
	*gin.Engine
	Velocity *velocity.Options
}

func NewEngine(opts ...ServeOption) *Engine {
	bag := &serveOptionBag{}
	bag.apply(opts...)

	e := &Engine{
		Options:  NewOptions(bag.http...),
		Velocity: velocity.NewOptions(bag.velocity...),
	}

	if !e.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	e.Engine = gin.Default()

	if e.CorsMode {
		e.Use(Cors())
	}

	e.InstallHandlers()

	return e
}
