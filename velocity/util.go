package velocity

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrInvalidJSON is returned by Util.ParseJSON for text that is not JSON.
var ErrInvalidJSON = errors.New("velocity: invalid json")

// Util is the $util variable of a mapping template.
//
// Byte strings are strings whose runes are all in the range 0-255, one rune
// per byte.
type Util struct{}

// Base64Decode decodes s and returns the result as a byte string. Characters
// outside the base64 alphabets are skipped and decoding stops at padding.
func (Util) Base64Decode(s string) string {
	src := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '=':
			i = len(s)
		case c == '-':
			src = append(src, '+')
		case c == '_':
			src = append(src, '/')
		case c == '+' || c == '/' ||
			(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			src = append(src, c)
		}
	}
	if len(src)%4 == 1 {
		src = src[:len(src)-1]
	}

	raw := make([]byte, base64.RawStdEncoding.DecodedLen(len(src)))
	n, err := base64.RawStdEncoding.Decode(raw, src)
	if err != nil {
		return ""
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw[:n])
	if err != nil {
		return ""
	}
	return string(out)
}

// Base64Encode encodes the byte string s. Runes above 255 keep their low
// byte only. Text that is not valid UTF-8 is encoded byte for byte.
func (Util) Base64Encode(s string) string {
	if !utf8.ValidString(s) {
		return base64.StdEncoding.EncodeToString([]byte(s))
	}
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		raw = append(raw, byte(r))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// EscapeJavaScript escapes x for use inside a JavaScript string literal.
//
// Strings are escaped and then have every \n sequence turned back into a
// line feed. Mappings with string keys have each value escaped, without the
// line feed step, and are returned as JSON text. Other values are escaped
// through their string form; nil and values without one come back as is.
func (u Util) EscapeJavaScript(x any) any {
	switch v := x.(type) {
	case nil:
		return nil
	case string:
		return strings.ReplaceAll(escapeString(v), `\n`, "\n")
	case fmt.Stringer:
		return u.EscapeJavaScript(v.String())
	case error:
		return u.EscapeJavaScript(v.Error())
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return escapeObject(rv)
		}
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Slice, reflect.Array:
		return u.EscapeJavaScript(jsString(x))
	}
	return x
}

// ParseJSON parses s as JSON. Numbers decode as float64.
func (Util) ParseJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return v, nil
}

// URLDecode turns + into a space and then decodes percent escapes. Input
// with a malformed escape is returned with only the + replacement applied.
func (Util) URLDecode(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// URLEncode percent-encodes s as a URI component: everything except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped as UTF-8 bytes.
func (Util) URLEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		strings.IndexByte("-_.!~*'()", c) >= 0
}

var stringEscaper = strings.NewReplacer(
	`"`, `\"`,
	`'`, `\'`,
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

func escapeString(s string) string {
	return stringEscaper.Replace(s)
}

func escapeObject(rv reflect.Value) string {
	keys := make([]string, 0, rv.Len())
	values := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		values[k] = escapeString(jsString(iter.Value().Interface()))
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(jsonString(k))
		buf.WriteByte(':')
		buf.WriteString(jsonString(values[k]))
	}
	buf.WriteByte('}')
	return buf.String()
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}

// jsString renders v the way string concatenation in a template script
// would.
func jsString(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return jsNumber(v)
	case float32:
		return jsNumber(float64(v))
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i).Interface()
			if elem != nil {
				parts[i] = jsString(elem)
			}
		}
		return strings.Join(parts, ",")
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return jsString(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func jsNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case math.Abs(f) >= 1e21 || math.Abs(f) < 1e-6:
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// JavaScript writes 1e-7 where Go writes 1e-07.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
