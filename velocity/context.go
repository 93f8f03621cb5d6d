// Package velocity builds the context object an API gateway hands to its
// request mapping templates, so templates evaluated offline see the same
// variables they would see in the managed service.
package velocity

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// PrincipalIDEnv names the environment variable that overrides the
// authorizer principal id of unauthenticated requests.
const PrincipalIDEnv = "PRINCIPAL_ID"

const (
	mockAPIID                         = "offlineContext_apiId"
	mockPrincipalID                   = "offlineContext_authorizer_principalId"
	mockAccountID                     = "offlineContext_accountId"
	mockAPIKey                        = "offlineContext_apiKey"
	mockCaller                        = "offlineContext_caller"
	mockCognitoAuthenticationProvider = "offlineContext_cognitoAuthenticationProvider"
	mockCognitoAuthenticationType     = "offlineContext_cognitoAuthenticationType"
	mockUser                          = "offlineContext_user"
	mockUserArn                       = "offlineContext_userArn"
	mockResourceID                    = "offlineContext_resourceId"
)

// Context is the full set of template variables.
type Context struct {
	Context        RequestContext    `json:"context"`
	Input          *Input            `json:"input"`
	StageVariables map[string]string `json:"stageVariables"`
	Util           Util              `json:"util"`
}

type RequestContext struct {
	APIID        string     `json:"apiId"`
	Authorizer   Authorizer `json:"authorizer"`
	HTTPMethod   string     `json:"httpMethod"`
	Identity     Identity   `json:"identity"`
	RequestID    string     `json:"requestId"`
	ResourceID   string     `json:"resourceId"`
	ResourcePath string     `json:"resourcePath"`
	Stage        string     `json:"stage"`
}

type Authorizer struct {
	// Claims is nil when the request carried no decodable bearer token.
	Claims      Claims `json:"claims,omitempty"`
	PrincipalID string `json:"principalId"`
}

// MarshalJSON writes claims whenever a token was decoded, even when its
// payload is empty.
func (a Authorizer) MarshalJSON() ([]byte, error) {
	type authorizerJSON struct {
		Claims      *Claims `json:"claims,omitempty"`
		PrincipalID string  `json:"principalId"`
	}
	out := authorizerJSON{PrincipalID: a.PrincipalID}
	if a.Claims != nil {
		out.Claims = &a.Claims
	}
	return json.Marshal(out)
}

type Identity struct {
	AccountID                     string `json:"accountId"`
	APIKey                        string `json:"apiKey"`
	Caller                        string `json:"caller"`
	CognitoAuthenticationProvider string `json:"cognitoAuthenticationProvider"`
	CognitoAuthenticationType     string `json:"cognitoAuthenticationType"`
	SourceIP                      string `json:"sourceIp"`
	User                          string `json:"user"`
	UserAgent                     string `json:"userAgent"`
	UserArn                       string `json:"userArn"`
}

// BuildContext assembles the template context for req. A nil opts uses
// NewOptions defaults. Nothing in the result aliases payload or the
// parameter maps of req, except Input.Body and the raw header mapping.
func BuildContext(req *Request, opts *Options, payload any) *Context {
	if opts == nil {
		opts = NewOptions()
	}

	var claims Claims
	if token, ok := ExtractToken(req.UnprocessedHeaders); ok {
		c, err := decodeClaims(token)
		if err != nil && opts.DebugMode {
			log.Printf("[Velocity] Bearer token not decoded: %v", err)
		}
		claims = c
	}

	return &Context{
		Context: RequestContext{
			APIID: mockAPIID,
			Authorizer: Authorizer{
				Claims:      claims,
				PrincipalID: principalID(req),
			},
			HTTPMethod: strings.ToUpper(req.Method),
			Identity: Identity{
				AccountID:                     mockAccountID,
				APIKey:                        mockAPIKey,
				Caller:                        mockCaller,
				CognitoAuthenticationProvider: mockCognitoAuthenticationProvider,
				CognitoAuthenticationType:     mockCognitoAuthenticationType,
				SourceIP:                      req.RemoteAddr,
				User:                          mockUser,
				UserAgent:                     req.Headers["user-agent"],
				UserArn:                       mockUserArn,
			},
			RequestID:    newRequestID(opts.IDSource),
			ResourceID:   mockResourceID,
			ResourcePath: req.RoutePath,
			Stage:        opts.Stage,
		},
		Input:          newInput(req, payload),
		StageVariables: opts.StageVariables,
	}
}

func principalID(req *Request) string {
	if req.AuthUser != "" {
		return req.AuthUser
	}
	if id := os.Getenv(PrincipalIDEnv); id != "" {
		return id
	}
	return mockPrincipalID
}
