package proxy

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aura-studio/offline/velocity"
	events "github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
)

func proxyEvent(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		Resource:       "/pets/{petId}",
		HTTPMethod:     "PATCH",
		Headers:        map[string]string{"User-Agent": "lambda-test"},
		PathParameters: map[string]string{"petId": "p7"},
		StageVariables: map[string]string{"from": "event"},
		RequestContext: events.APIGatewayProxyRequestContext{
			Stage:    "v2",
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.5"},
		},
		Body: body,
	}
}

func TestInvoke_BuildsContext(t *testing.T) {
	var got *velocity.Context
	e := NewEngine(Proxy(WithHandler(func(vc *velocity.Context) (string, error) {
		got = vc
		return `{"ok":true}`, nil
	})))

	rsp, err := e.Invoke(context.Background(), proxyEvent(`{"name":"rex"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if rsp.StatusCode != 200 || rsp.Body != `{"ok":true}` {
		t.Errorf("response = %+v", rsp)
	}

	rc := got.Context
	if rc.HTTPMethod != "PATCH" || rc.ResourcePath != "/pets/{petId}" || rc.Stage != "v2" {
		t.Errorf("context = %+v", rc)
	}
	if rc.Identity.SourceIP != "203.0.113.5" || rc.Identity.UserAgent != "lambda-test" {
		t.Errorf("identity = %+v", rc.Identity)
	}
	if got.StageVariables["from"] != "event" {
		t.Errorf("StageVariables = %v", got.StageVariables)
	}
	if v, _ := got.Input.Path("$.name"); v != "rex" {
		t.Errorf("Path($.name) = %v", v)
	}
	if v, _ := got.Input.Param("petId"); v != "p7" {
		t.Errorf("Param(petId) = %v", v)
	}
}

func TestInvoke_ConfiguredStage(t *testing.T) {
	var got *velocity.Context
	e := NewEngine(
		Proxy(WithEventStage(false)),
		Proxy(WithHandler(func(vc *velocity.Context) (string, error) {
			got = vc
			return "", nil
		})),
		Velocity(velocity.WithStage("configured")),
	)

	if _, err := e.Invoke(context.Background(), proxyEvent("")); err != nil {
		t.Fatal(err)
	}
	if got.Context.Stage != "configured" {
		t.Errorf("Stage = %q", got.Context.Stage)
	}
	if got.Input.Body != nil {
		t.Errorf("Body = %#v, want nil", got.Input.Body)
	}
}

func TestInvoke_Base64BodyAndClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "owner"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}

	var got *velocity.Context
	e := NewEngine(Proxy(WithHandler(func(vc *velocity.Context) (string, error) {
		got = vc
		return "", nil
	})))

	ev := proxyEvent(base64.StdEncoding.EncodeToString([]byte("plain text")))
	ev.IsBase64Encoded = true
	ev.Headers["Authorization"] = "Bearer " + token

	if _, err := e.Invoke(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if got.Input.Body != "plain text" {
		t.Errorf("Body = %#v", got.Input.Body)
	}
	if got.Context.Authorizer.Claims["sub"] != "owner" {
		t.Errorf("Claims = %v", got.Context.Authorizer.Claims)
	}
}

func TestInvoke_Failures(t *testing.T) {
	ctx := context.Background()

	rsp, _ := NewEngine().Invoke(ctx, proxyEvent(""))
	if rsp.StatusCode != 500 || rsp.Body != errNoHandler.Error() {
		t.Errorf("no handler: %+v", rsp)
	}

	e := NewEngine(Proxy(WithHandler(func(*velocity.Context) (string, error) {
		return "", errors.New("template failed")
	})))
	if rsp, _ := e.Invoke(ctx, proxyEvent("")); rsp.StatusCode != 500 || rsp.Body != "template failed" {
		t.Errorf("handler error: %+v", rsp)
	}

	e = NewEngine(Proxy(WithHandler(func(*velocity.Context) (string, error) {
		panic("boom")
	})))
	if rsp, _ := e.Invoke(ctx, proxyEvent("")); rsp.StatusCode != 500 || rsp.Body != "panic: boom" {
		t.Errorf("handler panic: %+v", rsp)
	}

	ev := proxyEvent("not base64!")
	ev.IsBase64Encoded = true
	if rsp, _ := e.Invoke(ctx, ev); rsp.StatusCode != 400 {
		t.Errorf("bad body: %+v", rsp)
	}

	e.Stop()
	if rsp, _ := e.Invoke(ctx, proxyEvent("")); rsp.StatusCode != 503 {
		t.Errorf("stopped: %+v", rsp)
	}
	e.Start()
	if !e.IsRunning() {
		t.Error("engine not running after Start")
	}
}

func TestWithServeConfig(t *testing.T) {
	e := NewEngine(WithServeConfig([]byte(`
proxy:
  debug: true
  eventStage: false
velocity:
  stage: yaml-stage
`)))
	if !e.DebugMode || e.EventStage {
		t.Errorf("proxy options = %+v", e.Options)
	}
	if e.Velocity.Stage != "yaml-stage" {
		t.Errorf("Stage = %q", e.Velocity.Stage)
	}
}
