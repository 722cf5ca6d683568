package openapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// Registry of the API operations this module knows how to call. It is used to
// list operations (CLI), to serve a minimal OpenAPI document (booking demo)
// and to tell public operations from protected ones.

// Operation represents a single HTTP operation.
type Operation struct {
	ID          string   `json:"operationId"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	// Public operations are sent without credentials.
	Public      bool           `json:"public,omitempty"`
	RequestBody any            `json:"requestBody,omitempty"`
	Responses   map[string]any `json:"responses"`
}

// Registry holds registered operations.
type Registry struct {
	Ops []Operation
}

func NewRegistry() *Registry { return &Registry{Ops: []Operation{}} }

func (r *Registry) Register(op Operation) {
	if op.Method != "" {
		op.Method = strings.ToLower(op.Method)
	}
	if op.Responses == nil {
		op.Responses = map[string]any{"200": map[string]any{"description": "OK"}}
	}
	r.Ops = append(r.Ops, op)
}

// Lookup finds an operation by method and templated path.
func (r *Registry) Lookup(method, path string) (Operation, bool) {
	method = strings.ToLower(method)
	for _, op := range r.Ops {
		if op.Method == method && op.Path == path {
			return op, true
		}
	}
	return Operation{}, false
}

// Sorted returns the operations ordered by path then method.
func (r *Registry) Sorted() []Operation {
	out := append([]Operation(nil), r.Ops...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Build produces a minimal OpenAPI 3.1 document for the registered
// operations. Public operations opt out of the global security requirement.
func (r *Registry) Build(serviceName, version, serverURL string) map[string]any {
	paths := map[string]any{}
	for _, op := range r.Ops {
		if _, ok := paths[op.Path]; !ok {
			paths[op.Path] = map[string]any{}
		}
		m := map[string]any{
			"operationId": op.ID,
			"summary":     op.Summary,
			"description": op.Description,
			"tags":        op.Tags,
			"responses":   op.Responses,
		}
		if params := pathParameters(op.Path); len(params) > 0 {
			m["parameters"] = params
		}
		if op.Public {
			m["security"] = []map[string]any{}
		}
		if op.RequestBody != nil {
			m["requestBody"] = op.RequestBody
		}
		paths[op.Path].(map[string]any)[op.Method] = m
	}
	doc := map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": serviceName, "version": version},
		"paths":   paths,
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearer": map[string]any{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string]any{{"bearer": []string{}}},
	}
	if serverURL != "" {
		doc["servers"] = []map[string]any{{"url": serverURL}}
	}
	return doc
}

func pathParameters(path string) []map[string]any {
	var out []map[string]any
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			out = append(out, map[string]any{
				"name":     strings.Trim(seg, "{}"),
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "string"},
			})
		}
	}
	return out
}

// ServeHandler returns an HTTP handler that serves the built OpenAPI JSON.
func (r *Registry) ServeHandler(serviceName, version, serverURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.Build(serviceName, version, serverURL))
	}
}
