package operations

import (
	"net/http"

	"savvycal/pkg/openapi"
)

// Templated API paths. Requests are matched against these, not the resolved
// URL, when deciding whether credentials are attached.
const (
	PathAccount             = "/v1/account"
	PathAccounts            = "/v1/accounts"
	PathAccountByID         = "/v1/accounts/{account_id}"
	PathUsers               = "/v1/users"
	PathUser                = "/v1/user"
	PathAppointments        = "/v1/appointments"
	PathAppointment         = "/v1/appointments/{appointment_id}"
	PathBlocks              = "/v1/blocks"
	PathBlock               = "/v1/blocks/{block_id}"
	PathCancellationReasons = "/v1/cancellation_reasons"
	PathCancellationReason  = "/v1/cancellation_reasons/{cancellation_reason_id}"
	PathClients             = "/v1/clients"
	PathClient              = "/v1/clients/{client_id}"
	PathPlatform            = "/v1/platform"
	PathProviderSchedules   = "/v1/provider_schedules"
	PathProviderSchedule    = "/v1/provider_schedules/{provider_schedule_id}"
	PathProviders           = "/v1/providers"
	PathProvider            = "/v1/providers/{provider_id}"
	PathRoles               = "/v1/roles"
	PathServices            = "/v1/services"
	PathService             = "/v1/services/{service_id}"
	PathServiceProviders    = "/v1/services/{service_id}/providers"
	PathServiceSlots        = "/v1/services/{service_id}/slots"
	PathPublicServiceSlots  = "/v1/public/services/{service_id}/slots"
	PathPublicEarliestSlot  = "/v1/public/services/{service_id}/earliest_slot"
	PathPublicAppointments  = "/v1/public/appointments"
)

// Catalog lists every operation in this package.
var Catalog = newCatalog()

func newCatalog() *openapi.Registry {
	r := openapi.NewRegistry()
	add := func(id, method, path, summary, tag string) {
		r.Register(openapi.Operation{ID: id, Method: method, Path: path, Summary: summary, Tags: []string{tag}})
	}
	public := func(id, method, path, summary string) {
		r.Register(openapi.Operation{ID: id, Method: method, Path: path, Summary: summary, Tags: []string{"public"}, Public: true})
	}

	add("getCurrentAccount", http.MethodGet, PathAccount, "Get the current account", "accounts")
	add("listAccounts", http.MethodGet, PathAccounts, "List accounts", "accounts")
	add("getAccount", http.MethodGet, PathAccountByID, "Get an account", "accounts")
	add("listAccountUsers", http.MethodGet, PathUsers, "List account users", "users")
	add("getCurrentAccountUser", http.MethodGet, PathUser, "Get the current account user", "users")
	add("listAppointments", http.MethodGet, PathAppointments, "List appointments", "appointments")
	add("createAppointment", http.MethodPost, PathAppointments, "Create an appointment", "appointments")
	add("getAppointment", http.MethodGet, PathAppointment, "Get an appointment", "appointments")
	add("listBlocks", http.MethodGet, PathBlocks, "List blocks", "blocks")
	add("getBlock", http.MethodGet, PathBlock, "Get a block", "blocks")
	add("listCancellationReasons", http.MethodGet, PathCancellationReasons, "List cancellation reasons", "cancellation_reasons")
	add("getCancellationReason", http.MethodGet, PathCancellationReason, "Get a cancellation reason", "cancellation_reasons")
	add("listClients", http.MethodGet, PathClients, "List clients", "clients")
	add("getClient", http.MethodGet, PathClient, "Get a client", "clients")
	add("getCurrentPlatform", http.MethodGet, PathPlatform, "Get the current platform", "platform")
	add("listProviderSchedules", http.MethodGet, PathProviderSchedules, "List provider schedules", "provider_schedules")
	add("getProviderSchedule", http.MethodGet, PathProviderSchedule, "Get a provider schedule", "provider_schedules")
	add("listProviders", http.MethodGet, PathProviders, "List providers", "providers")
	add("getProvider", http.MethodGet, PathProvider, "Get a provider", "providers")
	add("listRoles", http.MethodGet, PathRoles, "List roles", "roles")
	add("listServices", http.MethodGet, PathServices, "List services", "services")
	add("getService", http.MethodGet, PathService, "Get a service", "services")
	add("listServiceProviders", http.MethodGet, PathServiceProviders, "List providers for a service", "services")
	add("listServiceSlots", http.MethodGet, PathServiceSlots, "List slots for a service", "services")
	public("listPublicServiceSlots", http.MethodGet, PathPublicServiceSlots, "List public slots for a service")
	public("getEarliestPublicServiceSlot", http.MethodGet, PathPublicEarliestSlot, "Get the earliest public slot for a service")
	public("createPublicAppointment", http.MethodPost, PathPublicAppointments, "Book an appointment without credentials")
	return r
}
