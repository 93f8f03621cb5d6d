// Package proxy serves API Gateway proxy integration events from the Lambda
// runtime, building the same template context the offline HTTP gateway
// builds.
package proxy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/aura-studio/offline/velocity"
	events "github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
)

// Handler renders the response body for an event from its template context.
type Handler func(*velocity.Context) (string, error)

var errNoHandler = errors.New("proxy: no handler configured")

type Engine struct {
	*Options
	Velocity *velocity.Options
	running  atomic.Int32
}

func NewEngine(opts ...ServeOption) *Engine {
	bag := &serveOptionBag{}
	bag.apply(opts...)

	e := &Engine{
		Options:  NewOptions(bag.proxy...),
		Velocity: velocity.NewOptions(bag.velocity...),
	}
	e.running.Store(1)
	return e
}

func (e *Engine) Start() {
	e.running.Store(1)
}

func (e *Engine) Stop() {
	e.running.Store(0)
}

func (e *Engine) IsRunning() bool {
	return e.running.Load() == 1
}

// Invoke handles one proxy event. Handler failures become a 500 response
// rather than an invocation error.
func (e *Engine) Invoke(_ context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if !e.IsRunning() {
		return textResponse(http.StatusServiceUnavailable, "engine is stopped"), nil
	}

	payload, err := decodeBody(ev)
	if err != nil {
		if e.DebugMode {
			log.Printf("[Proxy] Decode body error: %v", err)
		}
		return textResponse(http.StatusBadRequest, err.Error()), nil
	}

	vc := velocity.BuildContext(velocity.FromAPIGatewayProxyRequest(ev), e.velocityOptions(ev), payload)

	if e.DebugMode {
		log.Printf("[Proxy] Request: %s %s %s", vc.Context.HTTPMethod, vc.Context.ResourcePath, vc.Context.RequestID)
	}

	rsp, err := e.handle(vc)
	if err != nil {
		if e.DebugMode {
			log.Printf("[Proxy] Error: %v", err)
		}
		return textResponse(http.StatusInternalServerError, err.Error()), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       rsp,
	}, nil
}

func (e *Engine) handle(vc *velocity.Context) (rsp string, err error) {
	if e.Handler == nil {
		return "", errNoHandler
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.Handler(vc)
}

func (e *Engine) velocityOptions(ev events.APIGatewayProxyRequest) *velocity.Options {
	if !e.EventStage {
		return e.Velocity
	}
	opts := *e.Velocity
	if ev.RequestContext.Stage != "" {
		opts.Stage = ev.RequestContext.Stage
	}
	if ev.StageVariables != nil {
		opts.StageVariables = ev.StageVariables
	}
	return &opts
}

func decodeBody(ev events.APIGatewayProxyRequest) (any, error) {
	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, fmt.Errorf("unable to decode request body: %w", err)
		}
		body = b
	}
	if len(body) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return string(body), nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("unable to decode request body: %w", err)
	}
	return payload, nil
}

func textResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       body,
	}
}
