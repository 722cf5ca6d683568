package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jws"
)

// claims is a token payload. Only exp is interpreted; other registered
// claims are read leniently and never cause a token to be rejected.
type claims map[string]any

// decodeToken checks that raw is three dot separated segments whose middle
// segment is base64url JSON, and returns the payload. The header and
// signature are not inspected and nothing is verified.
func decodeToken(raw string) (claims, error) {
	_, payload, _, err := jws.SplitCompactString(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	data, err := decodeSegment(payload)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrInvalidAccessToken
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, ErrInvalidAccessToken
	}
	if dec.More() {
		return nil, ErrInvalidAccessToken
	}
	c, _ := v.(map[string]any)
	return claims(c), nil
}

// decodeSegment accepts unpadded base64url as well as the padded standard
// alphabet some issuers produce.
func decodeSegment(seg []byte) ([]byte, error) {
	s := strings.TrimRight(string(seg), "=")
	if s == "" {
		return nil, errors.New("empty segment")
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// numericDate reads a seconds-since-epoch claim. present reports whether the
// claim exists, ok whether it holds a usable number.
func (c claims) numericDate(name string) (t time.Time, present, ok bool) {
	v, present := c[name]
	if !present {
		return time.Time{}, false, false
	}
	n, isNum := v.(json.Number)
	if !isNum {
		return time.Time{}, true, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return time.Time{}, true, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)), true, true
}

func (c claims) str(name string) string {
	switch v := c[name].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func (c claims) audience() []string {
	switch v := c["aud"].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, a := range v {
			if s, ok := a.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// validTokenShape reports whether raw looks like a JWT.
func validTokenShape(raw string) bool {
	_, err := decodeToken(raw)
	return err == nil
}

// tokenExpired applies the expiry rule: undecodable tokens are expired,
// tokens without exp never expire, otherwise exp <= now is expired. An exp
// that is not a number counts as expired.
func tokenExpired(raw string, now time.Time) bool {
	c, err := decodeToken(raw)
	if err != nil {
		return true
	}
	exp, present, ok := c.numericDate("exp")
	if !present {
		return false
	}
	if !ok {
		return true
	}
	return !now.Before(exp)
}

// tokenCache holds the last accepted bearer token for one client.
type tokenCache struct {
	mu      sync.Mutex
	current string
}

func (c *tokenCache) reusable(now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == "" || tokenExpired(c.current, now) {
		return "", false
	}
	return c.current, true
}

func (c *tokenCache) set(tok string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = tok
}

// TokenClaims is the subset of a decoded token that callers may want to show.
type TokenClaims struct {
	Subject   string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Private   map[string]any
}

var registeredClaims = []string{"sub", "iss", "aud", "exp", "iat", "nbf", "jti"}

// InspectToken decodes a token structurally and returns its registered claims.
// No signature verification is performed. Registered claims of an unexpected
// type are left zero.
func InspectToken(raw string) (TokenClaims, error) {
	c, err := decodeToken(raw)
	if err != nil {
		return TokenClaims{}, credentialError(ErrInvalidAccessToken)
	}
	iat, _, _ := c.numericDate("iat")
	exp, _, _ := c.numericDate("exp")
	private := map[string]any{}
	for k, v := range c {
		private[k] = v
	}
	for _, k := range registeredClaims {
		delete(private, k)
	}
	return TokenClaims{
		Subject:   c.str("sub"),
		Issuer:    c.str("iss"),
		Audience:  c.audience(),
		IssuedAt:  iat,
		ExpiresAt: exp,
		Private:   private,
	}, nil
}

// TokenExpired reports whether raw would be refreshed if it were cached now.
func TokenExpired(raw string, now time.Time) bool { return tokenExpired(raw, now) }
