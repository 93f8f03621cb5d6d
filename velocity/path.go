package velocity

import (
	"strings"

	"github.com/ohler55/ojg/jp"
)

// queryPath evaluates a JSONPath expression against data. No match reports
// false, one match is returned as is and several matches come back as a
// slice.
//
// Beyond $.a.b and $['a'] addressing this covers wildcards on objects and
// arrays, recursive descent ($..b), slices ([0:2], [-1:]), unions
// (['a','b']) and filters ([?(@.n > 1)]).
func queryPath(data any, expr string) (any, bool) {
	x, err := parsePath(expr)
	if err != nil {
		return nil, false
	}
	res := x.Get(data)
	switch len(res) {
	case 0:
		return nil, false
	case 1:
		return res[0], true
	}
	return res, true
}

// parsePath accepts expressions with or without the leading $, as in "a.b"
// or "[0]".
func parsePath(expr string) (jp.Expr, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case strings.HasPrefix(expr, "$"):
	case strings.HasPrefix(expr, "["):
		expr = "$" + expr
	case expr == "":
		expr = "$"
	default:
		expr = "$." + expr
	}
	return jp.ParseString(expr)
}
