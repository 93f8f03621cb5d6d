package proxy

import (
	"sync/atomic"

	"github.com/aws/aws-lambda-go/lambda"
)

var engine atomic.Pointer[Engine]

// Serve registers a new Engine with the Lambda runtime. It does not return.
func Serve(opts ...ServeOption) {
	e := NewEngine(opts...)
	engine.Store(e)
	lambda.Start(e.Invoke)
}

// Close stops the engine started by Serve.
func Close() {
	if e := engine.Load(); e != nil {
		e.Stop()
	}
}
