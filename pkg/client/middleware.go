package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestInfo describes the operation a request was built for.
type RequestInfo struct {
	Method     string
	SchemaPath string // templated path, e.g. /v1/services/{service_id}
	Params     Params
}

// Middleware intercepts requests after they are built and before they are
// handed to the transport. Hooks run in registration order; an error from
// OnRequest aborts the call before anything is sent.
type Middleware struct {
	Name       string
	OnRequest  func(req *http.Request, info RequestInfo) error
	OnResponse func(resp *http.Response, info RequestInfo) error
}

type ctxKey string

const ctxKeySchemaPath ctxKey = "savvycal.schemaPath"

// WithSchemaPath stores the templated path on ctx so transports can see it.
func WithSchemaPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ctxKeySchemaPath, path)
}

// SchemaPathFrom returns the templated path stored by WithSchemaPath.
func SchemaPathFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySchemaPath).(string); ok {
		return v
	}
	return ""
}

// HeaderRequestID is sent by the RequestID middleware.
const HeaderRequestID = "X-Request-Id"

// RequestID sets X-Request-Id on outgoing requests that don't carry one.
// from may return an ID already associated with ctx (e.g. the inbound request
// of a server); when it is nil or returns "", a new UUID is used.
func RequestID(from func(context.Context) string) Middleware {
	return Middleware{
		Name: "request-id",
		OnRequest: func(req *http.Request, _ RequestInfo) error {
			if req.Header.Get(HeaderRequestID) != "" {
				return nil
			}
			id := ""
			if from != nil {
				id = from(req.Context())
			}
			if id == "" {
				id = uuid.NewString()
			}
			req.Header.Set(HeaderRequestID, id)
			return nil
		},
	}
}

// TracingTransport wraps base so every outgoing request produces a client span.
func TracingTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		if p := SchemaPathFrom(r.Context()); p != "" {
			return r.Method + " " + p
		}
		return r.Method + " " + r.URL.Path
	}))
}
