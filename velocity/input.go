package velocity

import (
	"bytes"
	"encoding/json"

	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
)

// Input is the $input variable of a mapping template.
type Input struct {
	// Body is the payload exactly as it was handed to BuildContext.
	Body any `json:"body"`

	req  *Request
	data any
}

// Params is the snapshot returned by Input.Params.
type Params struct {
	Header      map[string]string `json:"header"`
	Path        map[string]string `json:"path"`
	Querystring map[string]string `json:"querystring"`
}

func newInput(req *Request, payload any) *Input {
	return &Input{
		Body: payload,
		req:  req,
		data: payloadData(payload),
	}
}

// Path returns the value addressed by expr. The second result is false when
// nothing matches.
func (in *Input) Path(expr string) (any, bool) {
	return queryPath(in.data, expr)
}

// JSON returns the compact JSON text of the value addressed by expr, or an
// empty string when nothing matches.
func (in *Input) JSON(expr string) string {
	res, ok := queryPath(in.data, expr)
	if !ok {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return ""
	}
	return string(pretty.Ugly(buf.Bytes()))
}

// Param looks key up in the path parameters, then the query string, then the
// unprocessed headers. Empty values do not count as a match.
func (in *Input) Param(key string) (string, bool) {
	for _, m := range []map[string]string{in.req.Params, in.req.Query, in.req.UnprocessedHeaders} {
		if v := m[key]; v != "" {
			return v, true
		}
	}
	return "", false
}

// Params returns every parameter group. Path and Querystring are copies;
// Header is the request's own mapping.
func (in *Input) Params() Params {
	return Params{
		Header:      in.req.UnprocessedHeaders,
		Path:        copyParams(in.req.Params),
		Querystring: copyParams(in.req.Query),
	}
}

func copyParams(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return deepcopy.Copy(m).(map[string]string)
}

// payloadData is the generic JSON form of the payload that path queries
// run against.
func payloadData(payload any) any {
	var data any
	if err := json.Unmarshal([]byte(payloadDocument(payload)), &data); err != nil {
		return map[string]any{}
	}
	return data
}

// payloadDocument renders the payload as the JSON document path queries run
// against. Falsy payloads behave like an empty object.
func payloadDocument(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "{}"
	case json.RawMessage:
		if len(bytes.TrimSpace(v)) == 0 {
			return "{}"
		}
		return string(v)
	case string:
		if v == "" {
			return "{}"
		}
	case bool:
		if !v {
			return "{}"
		}
	case float64:
		if v == 0 {
			return "{}"
		}
	case int:
		if v == 0 {
			return "{}"
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
