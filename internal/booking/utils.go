package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"savvycal/pkg/client"
	"savvycal/pkg/middleware"
	"savvycal/pkg/problems"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeUpstreamError maps a SavvyCal failure to a problem response. Client
// errors from the API are passed through; everything else is a 502.
func (a *App) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		p := problems.New(apiErr.Status, "upstream-rejected", apiErr.Message)
		p.Instance = r.URL.Path
		if len(apiErr.Body) > 0 {
			var body map[string]any
			if json.Unmarshal(apiErr.Body, &body) == nil {
				if errs, ok := body["errors"].(map[string]any); ok {
					p.Errors = errs
				}
			}
		}
		problems.WriteProblem(w, p)
	case client.IsAuthError(err):
		a.Log.Errorw("savvycal credential problem", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		problems.Write(w, r, http.StatusBadGateway, "upstream-auth", "the booking service is misconfigured")
	default:
		a.Log.Warnw("savvycal request failed", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		problems.Write(w, r, http.StatusBadGateway, "upstream-unavailable", "SavvyCal is unavailable, try again")
	}
}
