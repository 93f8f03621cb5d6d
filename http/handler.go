package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/aura-studio/offline/velocity"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	VelocityContext     = "velocity"
	ResponseContext     = "response"
	ResponseMetaContext = "response_meta"
	ErrorContext        = "error"
	PanicContext        = "panic"
	DebugContext        = "debug"
	StdoutContext       = "stdout"
	StderrContext       = "stderr"
)

// MetaKey is the response field a handler may use to shape the HTTP
// response. It is removed from the body before it is written.
const MetaKey = "__meta__"

const (
	RspMetaETag        = "etag"
	RspMetaContentType = "content_type"
	RspMetaContent     = "content"
	RspMetaStatus      = "status"
)

// Handler renders the response body for a request from its template
// context.
type Handler func(*velocity.Context) (string, error)

type Route struct {
	Method  string
	Path    string
	Handler Handler
}

var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions}

func (e *Engine) InstallHandlers() {
	rootTaken, catchAll := false, false
	for _, rt := range e.Options.Routes {
		rootTaken = rootTaken || rt.Path == "/"
		catchAll = catchAll || strings.HasPrefix(rt.Path, "/*")

		h := e.API(rt)
		if rt.Method == "" || strings.EqualFold(rt.Method, "ANY") {
			e.HandleAllMethods(rt.Path, e.Debug, h)
		} else {
			e.Handle(strings.ToUpper(rt.Method), rt.Path, e.Debug, h)
		}
	}

	// a root catch-all route owns every path
	if !catchAll {
		e.HandleAllMethods("/health-check", e.OK)
		if !rootTaken {
			e.HandleAllMethods("/", e.OK)
		}
	}

	e.NoRoute(e.PageNotFound)
	e.NoMethod(e.MethodNotAllowed)
}

func (e *Engine) HandleAllMethods(relativePath string, handlers ...gin.HandlerFunc) {
	for _, method := range methods {
		e.Handle(method, relativePath, handlers...)
	}
}

func (e *Engine) OK(c *gin.Context) {
	c.String(http.StatusOK, "OK")
	c.Abort()
}

func (e *Engine) Debug(c *gin.Context) {
	if e.DebugMode {
		c.Set(DebugContext, true)
	}
}

// API returns the gin handler serving rt.
func (e *Engine) API(rt Route) gin.HandlerFunc {
	resource := ResourcePath(rt.Path)
	greedy := greedyParams(rt.Path)

	return func(c *gin.Context) {
		params := map[string]string{}
		for _, p := range c.Params {
			if greedy[p.Key] {
				params[p.Key] = strings.TrimPrefix(p.Value, "/")
			} else {
				params[p.Key] = p.Value
			}
		}

		payload, err := e.genPayload(c)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			c.Abort()
			return
		}

		req := velocity.FromHTTPRequest(c.Request, resource, params)
		vc := velocity.BuildContext(req, e.Velocity, payload)
		c.Set(VelocityContext, vc)

		// handle
		if c.GetBool(DebugContext) {
			stdout, stderr, panicErr := doDebug(func() {
				e.doProcessor(c, rt.Handler)
			})
			c.Set(StdoutContext, stdout)
			c.Set(StderrContext, stderr)
			c.Set(PanicContext, panicErr)
		} else {
			c.Set(PanicContext, doSafe(func() {
				e.doProcessor(c, rt.Handler)
			}))
		}

		if e.DebugMode {
			log.Printf("[HTTP] %s %s (%s) %s", req.Method, c.Request.URL.Path, resource, vc.Context.RequestID)
		}

		// response
		if c.GetBool(DebugContext) {
			c.String(http.StatusOK, e.formatDebug(c))
			c.Abort()
			return
		} else if v, ok := c.Get(PanicContext); ok && v != nil {
			c.String(http.StatusInternalServerError, v.(error).Error())
			c.Abort()
			return
		} else if v, ok := c.Get(ErrorContext); ok && v != nil {
			c.String(http.StatusInternalServerError, v.(error).Error())
			c.Abort()
			return
		} else {
			status, contentType, rspBody := e.parseRspMeta(c)
			c.Data(status, contentType, []byte(rspBody))
			c.Abort()
			return
		}
	}
}

func (e *Engine) PageNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
	c.Abort()
}

func (e *Engine) MethodNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, "405 method not allowed")
	c.Abort()
}

// genPayload decodes a JSON body. Any other body is passed on as a string
// and an empty body as nil.
func (e *Engine) genPayload(c *gin.Context) (any, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	defer c.Request.Body.Close()

	c.Request.Body = io.NopCloser(bytes.NewBuffer(data))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return string(data), nil
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return payload, nil
}

func (e *Engine) doProcessor(c *gin.Context, f Handler) {
	vc := c.MustGet(VelocityContext).(*velocity.Context)
	rsp, err := f(vc)
	if gjson.Valid(rsp) && gjson.Get(rsp, MetaKey).Exists() {
		rspMeta := make(map[string]any)
		gjson.Get(rsp, MetaKey).ForEach(func(key, value gjson.Result) bool {
			rspMeta[key.String()] = value.Value()
			return true
		})
		c.Set(ResponseMetaContext, rspMeta)
		rsp, _ = sjson.Delete(rsp, MetaKey)
	}
	c.Set(ResponseContext, rsp)
	c.Set(ErrorContext, err)
}

// parseRspMeta applies response meta.
// Rules:
// - If content_type is empty: default to application/json
// - If status is a valid HTTP status: use it instead of 200
// - If content has value: override the response body with content
func (e *Engine) parseRspMeta(c *gin.Context) (int, string, string) {
	respMeta := c.GetStringMap(ResponseMetaContext)
	rspBody := c.GetString(ResponseContext)

	status := http.StatusOK
	contentType := "application/json"

	if respMeta != nil {
		if etag, ok := respMeta[RspMetaETag]; ok && etag != nil && etag != "" {
			c.Header("ETag", fmt.Sprintf("%v", etag))
		}

		if ct, ok := respMeta[RspMetaContentType]; ok && ct != nil && ct != "" {
			contentType = fmt.Sprintf("%v", ct)
		}

		if s, ok := respMeta[RspMetaStatus]; ok && s != nil {
			if n, err := strconv.Atoi(fmt.Sprintf("%v", s)); err == nil && n >= 100 && n <= 599 {
				status = n
			}
		}

		if content, ok := respMeta[RspMetaContent]; ok && content != nil && content != "" {
			rspBody = fmt.Sprintf("%v", content)
		}
	}

	return status, contentType, rspBody
}

func (e *Engine) formatDebug(c *gin.Context) string {
	var buf bytes.Buffer
	buf.WriteString(`Method: `)
	buf.WriteString(c.Request.Method)
	buf.WriteString("\n")
	buf.WriteString(`Path: `)
	buf.WriteString(c.Request.URL.Path)
	buf.WriteString("\n")
	buf.WriteString(`Context: `)
	if v, ok := c.Get(VelocityContext); ok {
		ctxBytes, _ := json.Marshal(v)
		buf.Write(ctxBytes)
	}
	buf.WriteString("\n")
	buf.WriteString(`Response Meta: `)
	rspMetaBytes, _ := json.Marshal(c.GetStringMap(ResponseMetaContext))
	buf.Write(rspMetaBytes)
	buf.WriteString("\n")
	buf.WriteString(`Stdout: `)
	buf.WriteString(c.GetString(StdoutContext))
	buf.WriteString("\n")
	buf.WriteString(`Stderr: `)
	buf.WriteString(c.GetString(StderrContext))
	buf.WriteString("\n")
	buf.WriteString(`Error: `)
	if v, ok := c.Get(ErrorContext); ok && v != nil {
		buf.WriteString(v.(error).Error())
	}
	buf.WriteString("\n")
	buf.WriteString(`Panic: `)
	if v, ok := c.Get(PanicContext); ok && v != nil {
		buf.WriteString(v.(error).Error())
	}
	buf.WriteString("\n")
	buf.WriteString(`Response: `)
	buf.WriteString(c.GetString(ResponseContext))
	buf.WriteString("\n")
	return buf.String()
}

// ResourcePath converts a gin route path into API Gateway resource form:
// /users/:id/*rest becomes /users/{id}/{rest+}.
func ResourcePath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		switch {
		case strings.HasPrefix(s, ":"):
			segs[i] = "{" + s[1:] + "}"
		case strings.HasPrefix(s, "*"):
			segs[i] = "{" + s[1:] + "+}"
		}
	}
	return strings.Join(segs, "/")
}

func greedyParams(path string) map[string]bool {
	greedy := map[string]bool{}
	for _, s := range strings.Split(path, "/") {
		if strings.HasPrefix(s, "*") {
			greedy[s[1:]] = true
		}
	}
	return greedy
}
