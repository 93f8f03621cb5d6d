package http

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/aura-studio/offline/velocity"
)

// EchoContext answers with the template context encoded as JSON.
func EchoContext(vc *velocity.Context) (string, error) {
	b, err := json.Marshal(vc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Template answers with tmpl executed against the context's template
// variables.
func Template(tmpl *template.Template) Handler {
	return func(vc *velocity.Context) (string, error) {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, vc.Vars()); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}
