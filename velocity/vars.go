package velocity

// Vars returns the context as nested maps keyed by the names templates use
// ($context.httpMethod, $input.path(...), $util.base64Encode(...)). Accessors
// and helpers are function values, suitable for text/template's call.
//
// input.params takes zero or one argument: none returns the Params snapshot,
// one looks the key up and yields nil when it is missing.
func (c *Context) Vars() map[string]any {
	rc := c.Context

	authorizer := map[string]any{
		"principalId": rc.Authorizer.PrincipalID,
	}
	if rc.Authorizer.Claims != nil {
		authorizer["claims"] = map[string]any(rc.Authorizer.Claims)
	}

	id := rc.Identity
	in := c.Input
	u := c.Util

	return map[string]any{
		"context": map[string]any{
			"apiId":      rc.APIID,
			"authorizer": authorizer,
			"httpMethod": rc.HTTPMethod,
			"identity": map[string]any{
				"accountId":                     id.AccountID,
				"apiKey":                        id.APIKey,
				"caller":                        id.Caller,
				"cognitoAuthenticationProvider": id.CognitoAuthenticationProvider,
				"cognitoAuthenticationType":     id.CognitoAuthenticationType,
				"sourceIp":                      id.SourceIP,
				"user":                          id.User,
				"userAgent":                     id.UserAgent,
				"userArn":                       id.UserArn,
			},
			"requestId":    rc.RequestID,
			"resourceId":   rc.ResourceID,
			"resourcePath": rc.ResourcePath,
			"stage":        rc.Stage,
		},
		"input": map[string]any{
			"body": in.Body,
			"json": in.JSON,
			"path": func(expr string) any {
				v, _ := in.Path(expr)
				return v
			},
			"params": func(key ...string) any {
				if len(key) == 0 {
					p := in.Params()
					return map[string]any{
						"header":      p.Header,
						"path":        p.Path,
						"querystring": p.Querystring,
					}
				}
				if v, ok := in.Param(key[0]); ok {
					return v
				}
				return nil
			},
		},
		"stageVariables": c.StageVariables,
		"util": map[string]any{
			"base64Decode":     u.Base64Decode,
			"base64Encode":     u.Base64Encode,
			"escapeJavaScript": u.EscapeJavaScript,
			"parseJson":        u.ParseJSON,
			"urlDecode":        u.URLDecode,
			"urlEncode":        u.URLEncode,
		},
	}
}
