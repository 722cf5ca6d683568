package booking

import (
	"net/http"

	"savvycal/pkg/openapi"
)

// Routes describes this server's own endpoints.
var Routes = func() *openapi.Registry {
	r := openapi.NewRegistry()
	r.Register(openapi.Operation{
		ID:      "getEarliestSlot",
		Method:  http.MethodGet,
		Path:    "/services/{service_id}/earliest",
		Summary: "Earliest bookable slot, with the month and day to show first",
		Tags:    []string{"booking"},
		Public:  true,
	})
	r.Register(openapi.Operation{
		ID:          "listMonthSlots",
		Method:      http.MethodGet,
		Path:        "/services/{service_id}/slots",
		Summary:     "Slots for one month grouped by local day",
		Description: "Query: month=YYYY-MM, tz=IANA zone.",
		Tags:        []string{"booking"},
		Public:      true,
	})
	r.Register(openapi.Operation{
		ID:      "createAppointment",
		Method:  http.MethodPost,
		Path:    "/services/{service_id}/appointments",
		Summary: "Book a slot",
		Tags:    []string{"booking"},
		Public:  true,
		RequestBody: map[string]any{
			"required": true,
			"content": map[string]any{"application/json": map[string]any{
				"schema": map[string]any{"type": "object", "required": []string{"start_at", "end_at", "time_zone", "client_data"}},
			}},
		},
		Responses: map[string]any{"201": map[string]any{"description": "Created"}},
	})
	return r
}()
