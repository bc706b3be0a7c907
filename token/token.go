package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// roleClaims is the priority-ordered set of claim names that may carry the
// role. The issuing server's token shape is not controlled by this client,
// so the chain must not be collapsed to a single name.
var roleClaims = [...]string{"rol", "role", "tipo"}

// Claims is the decoded payload of a bearer token: a mapping of claim name
// to value. Claims are transient; they are recomputed on every decode and
// never persisted separately from the raw token.
type Claims map[string]any

// Decode extracts the claims payload from a compact token. It returns nil
// for any input that does not carry a decodable payload segment: fewer than
// two segments, invalid base64, invalid UTF-8, or invalid JSON. Decode
// never panics.
func Decode(raw string) Claims {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return nil
	}

	segment := parts[1]
	if segment == "" {
		return nil
	}

	// URL-safe alphabet back to standard, then re-pad. Issuers emit
	// unpadded base64url; stored tokens may have been padded in transit.
	standard := strings.NewReplacer("-", "+", "_", "/").Replace(segment)
	if m := len(standard) % 4; m != 0 {
		standard += strings.Repeat("=", 4-m)
	}

	payload, err := base64.StdEncoding.DecodeString(standard)
	if err != nil {
		return nil
	}
	if !utf8.Valid(payload) {
		// json.Unmarshal would smuggle invalid sequences through as U+FFFD
		// instead of failing; a payload that is not valid UTF-8 is rejected
		// outright.
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	if claims == nil {
		// JSON "null" decodes without error but carries no claims.
		return nil
	}

	return claims
}

// ExpiresAt returns the numeric `exp` claim as epoch seconds. The second
// return is false when the claim is absent or not a number.
func (c Claims) ExpiresAt() (int64, bool) {
	v, ok := c["exp"]
	if !ok {
		return 0, false
	}

	f, ok := v.(float64)
	if !ok {
		return 0, false
	}

	return int64(f), true
}

// Role resolves the role claim through the rol → role → tipo priority
// chain. The first truthy claim wins; falsy values (absent, "", false, 0,
// null) fall through to the next name. A truthy non-string resolves to its
// printed form, so a boolean or numeric claim yields a role like "true" or
// "7" rather than silently borrowing a later claim's value. Returns ""
// when no claim resolves.
func (c Claims) Role() string {
	for _, name := range roleClaims {
		v, ok := c[name]
		if !ok || !Truthy(v) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// Truthy mirrors the loose presence check the issuing server's web clients
// apply to claim values: "", false, 0, and null are falsy, everything else
// is truthy.
func Truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case bool:
		return value
	case float64:
		return value != 0
	default:
		return true
	}
}

// Get returns the raw value of a claim and whether it is present.
func (c Claims) Get(name string) (any, bool) {
	v, ok := c[name]
	return v, ok
}
