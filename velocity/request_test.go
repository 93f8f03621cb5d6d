package velocity

import (
	"net/http/httptest"
	"testing"

	events "github.com/aws/aws-lambda-go/events"
)

func TestNewRequest_NormalizesHeaders(t *testing.T) {
	r := NewRequest("GET", "/", "1.2.3.4", map[string]string{"User-Agent": "ua", "X-Api-Key": "k"})
	if r.Headers["user-agent"] != "ua" || r.Headers["x-api-key"] != "k" {
		t.Errorf("Headers = %v", r.Headers)
	}
	if r.UnprocessedHeaders["User-Agent"] != "ua" {
		t.Errorf("UnprocessedHeaders = %v", r.UnprocessedHeaders)
	}
	if r.Params == nil || r.Query == nil {
		t.Error("parameter maps not initialised")
	}
}

func TestFromHTTPRequest(t *testing.T) {
	req := httptest.NewRequest("put", "http://example.com/items/7?q=a&q=b&x=1", nil)
	req.RemoteAddr = "192.168.1.9:5555"
	req.Header.Add("Accept", "text/plain")
	req.Header.Add("Accept", "application/json")

	r := FromHTTPRequest(req, "/items/{id}", map[string]string{"id": "7"})

	if r.Method != "put" || r.RoutePath != "/items/{id}" || r.RemoteAddr != "192.168.1.9" {
		t.Errorf("request = %+v", r)
	}
	if r.Headers["accept"] != "text/plain, application/json" {
		t.Errorf("accept = %q", r.Headers["accept"])
	}
	if r.Headers["host"] != "example.com" {
		t.Errorf("host = %q", r.Headers["host"])
	}
	if r.Query["q"] != "a" || r.Query["x"] != "1" {
		t.Errorf("Query = %v", r.Query)
	}
	if r.Params["id"] != "7" {
		t.Errorf("Params = %v", r.Params)
	}
}

func TestFromAPIGatewayProxyRequest(t *testing.T) {
	ev := events.APIGatewayProxyRequest{
		Resource:   "/orders/{orderId}",
		HTTPMethod: "get",
		Headers:    map[string]string{"Authorization": "Bearer x", "User-Agent": "lambda"},
		MultiValueHeaders: map[string][]string{
			"X-Multi": {"a", "b"},
		},
		PathParameters:                  map[string]string{"orderId": "o-1"},
		QueryStringParameters:           map[string]string{"page": "2"},
		MultiValueQueryStringParameters: map[string][]string{"tag": {"red", "blue"}, "page": {"9"}},
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity:   events.APIGatewayRequestIdentity{SourceIP: "8.8.8.8"},
			Authorizer: map[string]interface{}{"principalId": "p-1"},
		},
	}

	r := FromAPIGatewayProxyRequest(ev)

	if r.Method != "get" || r.RoutePath != "/orders/{orderId}" || r.RemoteAddr != "8.8.8.8" {
		t.Errorf("request = %+v", r)
	}
	if r.UnprocessedHeaders["Authorization"] != "Bearer x" || r.Headers["user-agent"] != "lambda" {
		t.Errorf("headers = %v", r.UnprocessedHeaders)
	}
	if r.UnprocessedHeaders["X-Multi"] != "a, b" {
		t.Errorf("X-Multi = %q", r.UnprocessedHeaders["X-Multi"])
	}
	if r.Params["orderId"] != "o-1" {
		t.Errorf("Params = %v", r.Params)
	}
	if r.Query["page"] != "2" || r.Query["tag"] != "red" {
		t.Errorf("Query = %v", r.Query)
	}
	if r.AuthUser != "p-1" {
		t.Errorf("AuthUser = %q", r.AuthUser)
	}
}
