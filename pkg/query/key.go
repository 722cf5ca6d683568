package query

import (
	"encoding/json"
	"net/http"
	"strings"

	"savvycal/pkg/client"
)

// Key identifies a cached response: [method, schema path, params].
// Shorter keys are used as invalidation prefixes.
type Key []any

// KeyFor builds the key for one request. Empty params are left out.
func KeyFor(method, path string, params client.Params) Key {
	k := Key{strings.ToLower(method), path}
	if len(params.Path) == 0 && len(params.Query) == 0 {
		return k
	}
	p := map[string]any{}
	if len(params.Path) > 0 {
		p["path"] = params.Path
	}
	if len(params.Query) > 0 {
		p["query"] = params.Query
	}
	return append(k, p)
}

// Get is KeyFor with the GET method.
func Get(path string, params client.Params) Key { return KeyFor(http.MethodGet, path, params) }

// String is the canonical encoding. encoding/json sorts map keys, so equal
// keys always encode the same way.
func (k Key) String() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return ""
	}
	return string(b)
}

// prefix is the encoding of k without the closing bracket; every key that
// starts with k's elements starts with it.
func (k Key) prefix() string {
	return strings.TrimSuffix(k.String(), "]")
}
