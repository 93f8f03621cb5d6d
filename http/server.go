package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

var srv atomic.Pointer[http.Server]

func Serve(opts ...ServeOption) error {
	e := NewEngine(opts...)
	s := &http.Server{
		Addr:    e.Address,
		Handler: e,
	}
	srv.Store(s)

	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down the server started by Serve, waiting up to five seconds
// for in-flight requests. It is safe to call from another goroutine.
func Close() error {
	s := srv.Load()
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}
