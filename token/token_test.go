package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func payloadToken(t *testing.T, payload string) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func TestDecodeRejectsInputsWithoutPayloadSegment(t *testing.T) {
	inputs := []string{
		"",
		"no-separator",
		"only-one-segment",
		".",
		"header.",
	}
	for _, input := range inputs {
		if claims := Decode(input); claims != nil {
			t.Fatalf("expected nil claims for %q, got %v", input, claims)
		}
	}
}

func TestDecodeRejectsBadBase64AndBadJSON(t *testing.T) {
	inputs := []string{
		"a.!!!not-base64!!!.c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("123")) + ".c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("null")) + ".c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte(`["array"]`)) + ".c",
	}
	for _, input := range inputs {
		if claims := Decode(input); claims != nil {
			t.Fatalf("expected nil claims for %q, got %v", input, claims)
		}
	}
}

func TestDecodeRejectsInvalidUTF8Payload(t *testing.T) {
	// json.Unmarshal would replace the bad sequence with U+FFFD and decode
	// anyway; the codec must reject it outright.
	payload := []byte("{\"exp\":9999999999,\"rol\":\"\xff\xfe\"}")
	raw := "a." + base64.RawURLEncoding.EncodeToString(payload) + ".c"

	if claims := Decode(raw); claims != nil {
		t.Fatalf("expected nil claims for invalid UTF-8 payload, got %v", claims)
	}
}

func TestDecodeSignedToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	raw := mintToken(t, jwt.MapClaims{"rol": "admin", "exp": exp})

	claims := Decode(raw)
	if claims == nil {
		t.Fatalf("expected claims, got nil")
	}

	got, ok := claims.ExpiresAt()
	if !ok {
		t.Fatalf("expected numeric exp claim")
	}
	if got != exp {
		t.Fatalf("expected exp %d, got %d", exp, got)
	}
	if claims.Role() != "admin" {
		t.Fatalf("expected role admin, got %q", claims.Role())
	}
}

func TestDecodeTwoSegmentToken(t *testing.T) {
	// A token without a signature segment still carries a payload.
	claims := Decode(payloadToken(t, `{"rol":"cliente","exp":123}`))
	if claims == nil {
		t.Fatalf("expected claims, got nil")
	}
	if claims.Role() != "cliente" {
		t.Fatalf("expected role cliente, got %q", claims.Role())
	}
}

func TestDecodePaddedPayload(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"rol":"admin"}`))
	claims := Decode("h." + payload)
	if claims == nil {
		t.Fatalf("expected claims from padded payload, got nil")
	}
}

func TestExpiresAtRejectsNonNumeric(t *testing.T) {
	claims := Decode(payloadToken(t, `{"exp":"1700000000"}`))
	if claims == nil {
		t.Fatalf("expected claims, got nil")
	}
	if _, ok := claims.ExpiresAt(); ok {
		t.Fatalf("expected non-numeric exp to be rejected")
	}

	claims = Decode(payloadToken(t, `{"rol":"admin"}`))
	if _, ok := claims.ExpiresAt(); ok {
		t.Fatalf("expected missing exp to be rejected")
	}
}

func TestRolePriorityChain(t *testing.T) {
	cases := []struct {
		payload string
		want    string
	}{
		{`{"rol":"a","role":"b","tipo":"c"}`, "a"},
		{`{"role":"b","tipo":"c"}`, "b"},
		{`{"tipo":"c"}`, "c"},
		// falsy values fall through to the next name
		{`{"rol":"","role":"b"}`, "b"},
		{`{"rol":false,"tipo":"c"}`, "c"},
		{`{"rol":0,"role":"b"}`, "b"},
		// truthy non-strings resolve in place instead of borrowing a later
		// claim; the printed form is the role
		{`{"rol":7,"tipo":"c"}`, "7"},
		{`{"rol":true,"role":"admin"}`, "true"},
		{`{"sub":"u1"}`, ""},
	}

	for _, tc := range cases {
		claims := Decode(payloadToken(t, tc.payload))
		if claims == nil {
			t.Fatalf("expected claims for %s, got nil", tc.payload)
		}
		if got := claims.Role(); got != tc.want {
			t.Fatalf("payload %s: expected role %q, got %q", tc.payload, tc.want, got)
		}
	}
}
