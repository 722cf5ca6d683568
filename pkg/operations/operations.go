// Package operations contains one typed function per SavvyCal API endpoint.
// Each takes the client explicitly and returns decoded data; non-2xx
// responses come back as *client.APIError.
package operations

import (
	"context"
	"net/http"
	"strconv"

	"savvycal/pkg/client"
)

// ListOptions are the pagination and filter parameters shared by list
// endpoints. Zero values are omitted.
type ListOptions struct {
	Page     int
	PageSize int
	Filters  map[string]any
}

// Query returns the query parameter map for o.
func (o *ListOptions) Query() map[string]any {
	if o == nil {
		return nil
	}
	q := make(map[string]any, len(o.Filters)+2)
	for k, v := range o.Filters {
		q[k] = v
	}
	if o.Page > 0 {
		q["page"] = strconv.Itoa(o.Page)
	}
	if o.PageSize > 0 {
		q["page_size"] = strconv.Itoa(o.PageSize)
	}
	return q
}

// SlotRange bounds a slot query by ISO dates ("2025-12-01").
type SlotRange struct {
	From  string
	Until string
}

// Query returns the query parameter map for r.
func (r SlotRange) Query() map[string]any {
	return map[string]any{"from": r.From, "until": r.Until}
}

func pathParam(name, value string) map[string]string {
	return map[string]string{name: value}
}

func getOne[T any](ctx context.Context, c *client.Client, path string, params client.Params) (*T, error) {
	env, err := client.Call[Envelope[T]](ctx, c, http.MethodGet, path, &client.RequestOptions{Params: params})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func getList[T any](ctx context.Context, c *client.Client, path string, params client.Params) (*List[T], error) {
	l, err := client.Call[List[T]](ctx, c, http.MethodGet, path, &client.RequestOptions{Params: params})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func create[T any](ctx context.Context, c *client.Client, path string, body any) (*T, error) {
	env, err := client.Call[Envelope[T]](ctx, c, http.MethodPost, path, &client.RequestOptions{Body: body})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Accounts and users

func GetCurrentAccount(ctx context.Context, c *client.Client) (*Account, error) {
	return getOne[Account](ctx, c, PathAccount, client.Params{})
}

func ListAccounts(ctx context.Context, c *client.Client, opts *ListOptions) (*List[Account], error) {
	return getList[Account](ctx, c, PathAccounts, client.Params{Query: opts.Query()})
}

func GetAccount(ctx context.Context, c *client.Client, accountID string) (*Account, error) {
	return getOne[Account](ctx, c, PathAccountByID, client.Params{Path: pathParam("account_id", accountID)})
}

func ListAccountUsers(ctx context.Context, c *client.Client) (*List[AccountUser], error) {
	return getList[AccountUser](ctx, c, PathUsers, client.Params{})
}

func GetCurrentAccountUser(ctx context.Context, c *client.Client) (*AccountUser, error) {
	return getOne[AccountUser](ctx, c, PathUser, client.Params{})
}

func ListRoles(ctx context.Context, c *client.Client) (*List[Role], error) {
	return getList[Role](ctx, c, PathRoles, client.Params{})
}

func GetCurrentPlatform(ctx context.Context, c *client.Client) (*Platform, error) {
	return getOne[Platform](ctx, c, PathPlatform, client.Params{})
}

// Appointments

func ListAppointments(ctx context.Context, c *client.Client, opts *ListOptions) (*List[Appointment], error) {
	return getList[Appointment](ctx, c, PathAppointments, client.Params{Query: opts.Query()})
}

func GetAppointment(ctx context.Context, c *client.Client, appointmentID string) (*Appointment, error) {
	return getOne[Appointment](ctx, c, PathAppointment, client.Params{Path: pathParam("appointment_id", appointmentID)})
}

func CreateAppointment(ctx context.Context, c *client.Client, body CreateAppointmentBody) (*Appointment, error) {
	return create[Appointment](ctx, c, PathAppointments, body)
}

func ListBlocks(ctx context.Context, c *client.Client, opts *ListOptions) (*List[Block], error) {
	return getList[Block](ctx, c, PathBlocks, client.Params{Query: opts.Query()})
}

func GetBlock(ctx context.Context, c *client.Client, blockID string) (*Block, error) {
	return getOne[Block](ctx, c, PathBlock, client.Params{Path: pathParam("block_id", blockID)})
}

func ListCancellationReasons(ctx context.Context, c *client.Client) (*List[CancellationReason], error) {
	return getList[CancellationReason](ctx, c, PathCancellationReasons, client.Params{})
}

func GetCancellationReason(ctx context.Context, c *client.Client, reasonID string) (*CancellationReason, error) {
	return getOne[CancellationReason](ctx, c, PathCancellationReason, client.Params{Path: pathParam("cancellation_reason_id", reasonID)})
}

func ListClients(ctx context.Context, c *client.Client, opts *ListOptions) (*List[Client], error) {
	return getList[Client](ctx, c, PathClients, client.Params{Query: opts.Query()})
}

func GetClient(ctx context.Context, c *client.Client, clientID string) (*Client, error) {
	return getOne[Client](ctx, c, PathClient, client.Params{Path: pathParam("client_id", clientID)})
}

// Providers and services

func ListProviders(ctx context.Context, c *client.Client, opts *ListOptions) (*List[Provider], error) {
	return getList[Provider](ctx, c, PathProviders, client.Params{Query: opts.Query()})
}

func GetProvider(ctx context.Context, c *client.Client, providerID string) (*Provider, error) {
	return getOne[Provider](ctx, c, PathProvider, client.Params{Path: pathParam("provider_id", providerID)})
}

func ListProviderSchedules(ctx context.Context, c *client.Client, opts *ListOptions) (*List[ProviderSchedule], error) {
	return getList[ProviderSchedule](ctx, c, PathProviderSchedules, client.Params{Query: opts.Query()})
}

func GetProviderSchedule(ctx context.Context, c *client.Client, scheduleID string) (*ProviderSchedule, error) {
	return getOne[ProviderSchedule](ctx, c, PathProviderSchedule, client.Params{Path: pathParam("provider_schedule_id", scheduleID)})
}

func ListServices(ctx context.Context, c *client.Client, opts *ListOptions) (*List[Service], error) {
	return getList[Service](ctx, c, PathServices, client.Params{Query: opts.Query()})
}

func GetService(ctx context.Context, c *client.Client, serviceID string) (*Service, error) {
	return getOne[Service](ctx, c, PathService, client.Params{Path: pathParam("service_id", serviceID)})
}

func ListServiceProviders(ctx context.Context, c *client.Client, serviceID string) (*List[Provider], error) {
	return getList[Provider](ctx, c, PathServiceProviders, client.Params{Path: pathParam("service_id", serviceID)})
}

func ListServiceSlots(ctx context.Context, c *client.Client, serviceID string, r SlotRange) (*List[Slot], error) {
	return getList[Slot](ctx, c, PathServiceSlots, client.Params{Path: pathParam("service_id", serviceID), Query: r.Query()})
}

// Public endpoints. These never carry an Authorization header.

// PublicServiceSlotsParams returns the request parameters used by
// ListPublicServiceSlots. Callers caching the result key on them.
func PublicServiceSlotsParams(serviceID string, r SlotRange) client.Params {
	return client.Params{Path: pathParam("service_id", serviceID), Query: r.Query()}
}

func ListPublicServiceSlots(ctx context.Context, c *client.Client, serviceID string, r SlotRange) (*List[Slot], error) {
	return getList[Slot](ctx, c, PathPublicServiceSlots, PublicServiceSlotsParams(serviceID, r))
}

// GetEarliestPublicServiceSlot returns nil without error when the service
// has no upcoming availability.
func GetEarliestPublicServiceSlot(ctx context.Context, c *client.Client, serviceID string) (*Slot, error) {
	env, err := client.Call[Envelope[*Slot]](ctx, c, http.MethodGet, PathPublicEarliestSlot,
		&client.RequestOptions{Params: client.Params{Path: pathParam("service_id", serviceID)}})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func CreatePublicAppointment(ctx context.Context, c *client.Client, body CreatePublicAppointmentBody) (*Appointment, error) {
	return create[Appointment](ctx, c, PathPublicAppointments, body)
}
