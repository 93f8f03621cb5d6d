package velocity

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("offline-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
		wantOK  bool
	}{
		{"no headers", nil, "", false},
		{"no authorization", map[string]string{"Host": "localhost"}, "", false},
		{"bearer", map[string]string{"Authorization": "Bearer abc.def.ghi"}, "abc.def.ghi", true},
		{"lower case header", map[string]string{"authorization": "Bearer abc"}, "abc", true},
		{"upper case header wins", map[string]string{"Authorization": "Bearer one", "authorization": "Bearer two"}, "one", true},
		{"empty upper falls through", map[string]string{"Authorization": "", "authorization": "Bearer two"}, "two", true},
		{"scheme is case sensitive", map[string]string{"Authorization": "bearer abc"}, "bearer abc", true},
		{"other scheme kept whole", map[string]string{"Authorization": "Basic dXNlcg=="}, "Basic dXNlcg==", true},
		{"bare token", map[string]string{"Authorization": "abc.def.ghi"}, "abc.def.ghi", true},
		{"scheme only", map[string]string{"Authorization": "Bearer"}, "", false},
		{"scheme and space", map[string]string{"Authorization": "Bearer "}, "", false},
		{"second word only", map[string]string{"Authorization": "Bearer abc extra"}, "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractToken(tt.headers)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractToken() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecodeClaims_SignedToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1", "scope": "read write", "n": 5})

	claims, ok := DecodeClaims(token)
	if !ok {
		t.Fatal("expected claims to decode")
	}
	if claims["sub"] != "user-1" {
		t.Errorf("sub = %v, want user-1", claims["sub"])
	}
	if claims["scope"] != "read write" {
		t.Errorf("scope = %v, want %q", claims["scope"], "read write")
	}
	if claims["n"] != float64(5) {
		t.Errorf("n = %v, want 5", claims["n"])
	}
}

func TestDecodeClaims_SignatureIgnored(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1"}) + "tampered"

	claims, ok := DecodeClaims(token)
	if !ok || claims["sub"] != "user-1" {
		t.Errorf("DecodeClaims() = (%v, %v), want claims with sub", claims, ok)
	}
}

func TestDecodeClaims_UnknownAlgorithm(t *testing.T) {
	enc := base64.RawURLEncoding
	token := enc.EncodeToString([]byte(`{"alg":"XYZ","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(`{"sub":"someone"}`)) + ".c2ln"

	claims, ok := DecodeClaims(token)
	if !ok || claims["sub"] != "someone" {
		t.Errorf("DecodeClaims() = (%v, %v), want claims with sub", claims, ok)
	}
}

func TestDecodeClaims_Garbage(t *testing.T) {
	for _, token := range []string{
		"",
		"garbage",
		"a.b",
		"a.b.c.d",
		"!!!.???.***",
		base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`)) + ".bm90IGpzb24.sig",
	} {
		if claims, ok := DecodeClaims(token); ok || claims != nil {
			t.Errorf("DecodeClaims(%q) = (%v, %v), want no claims", token, claims, ok)
		}
	}
}
