package velocity

import (
	"net"
	"net/http"
	"strings"

	events "github.com/aws/aws-lambda-go/events"
)

// Request is the inbound request a mapping template context is built from.
type Request struct {
	Method     string
	RoutePath  string
	RemoteAddr string

	// Headers is keyed by lower-cased header name.
	Headers map[string]string
	// UnprocessedHeaders keeps header names as they were received.
	UnprocessedHeaders map[string]string

	Params map[string]string
	Query  map[string]string

	// AuthUser is the identifier of the authenticated user, empty when the
	// request was not authenticated.
	AuthUser string
}

func NewRequest(method, routePath, remoteAddr string, headers map[string]string) *Request {
	r := &Request{
		Method:             method,
		RoutePath:          routePath,
		RemoteAddr:         remoteAddr,
		Headers:            map[string]string{},
		UnprocessedHeaders: map[string]string{},
		Params:             map[string]string{},
		Query:              map[string]string{},
	}
	for k, v := range headers {
		r.SetHeader(k, v)
	}
	return r
}

// SetHeader records a header under its raw and its lower-cased name.
func (r *Request) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	if r.UnprocessedHeaders == nil {
		r.UnprocessedHeaders = map[string]string{}
	}
	r.UnprocessedHeaders[name] = value
	r.Headers[strings.ToLower(name)] = value
}

// FromHTTPRequest converts a net/http request matched against routePath.
// Multi-valued headers are joined with ", " and only the first value of a
// repeated query parameter is kept.
func FromHTTPRequest(req *http.Request, routePath string, params map[string]string) *Request {
	r := NewRequest(req.Method, routePath, remoteHost(req.RemoteAddr), nil)
	for k, v := range req.Header {
		r.SetHeader(k, strings.Join(v, ", "))
	}
	if req.Host != "" {
		if _, ok := r.Headers["host"]; !ok {
			r.SetHeader("Host", req.Host)
		}
	}
	for k, v := range params {
		r.Params[k] = v
	}
	for k, v := range req.URL.Query() {
		if len(v) > 0 {
			r.Query[k] = v[0]
		}
	}
	return r
}

// FromAPIGatewayProxyRequest converts an API Gateway proxy integration event.
// The authorizer principal, when present, becomes the authenticated user.
func FromAPIGatewayProxyRequest(ev events.APIGatewayProxyRequest) *Request {
	r := NewRequest(ev.HTTPMethod, ev.Resource, ev.RequestContext.Identity.SourceIP, ev.Headers)
	for k, v := range ev.MultiValueHeaders {
		if _, ok := r.UnprocessedHeaders[k]; ok || len(v) == 0 {
			continue
		}
		r.SetHeader(k, strings.Join(v, ", "))
	}
	for k, v := range ev.PathParameters {
		r.Params[k] = v
	}
	for k, v := range ev.QueryStringParameters {
		r.Query[k] = v
	}
	for k, v := range ev.MultiValueQueryStringParameters {
		if _, ok := r.Query[k]; !ok && len(v) > 0 {
			r.Query[k] = v[0]
		}
	}
	if principal, ok := ev.RequestContext.Authorizer["principalId"].(string); ok {
		r.AuthUser = principal
	}
	return r
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
