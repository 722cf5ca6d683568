package operations

import "time"

// Envelope is the {"data": ...} wrapper around single resources.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// List is a page of resources.
type List[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

type Meta struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TimeZone  string    `json:"time_zone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AccountUser struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      *Role     `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Role struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Appointment struct {
	ID         string    `json:"id"`
	State      string    `json:"state"`
	ServiceID  string    `json:"service_id"`
	ProviderID string    `json:"provider_id,omitempty"`
	ClientID   string    `json:"client_id,omitempty"`
	StartAt    string    `json:"start_at"`
	EndAt      string    `json:"end_at"`
	TimeZone   string    `json:"time_zone"`
	Client     *Client   `json:"client,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Block struct {
	ID         string `json:"id"`
	ProviderID string `json:"provider_id,omitempty"`
	StartAt    string `json:"start_at"`
	EndAt      string `json:"end_at"`
	TimeZone   string `json:"time_zone"`
}

type CancellationReason struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Position int    `json:"position"`
}

type Client struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone,omitempty"`
	Locale      string `json:"locale,omitempty"`
	TimeZone    string `json:"time_zone,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
}

type Platform struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Provider struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	TimeZone    string `json:"time_zone,omitempty"`
}

type ProviderSchedule struct {
	ID         string `json:"id"`
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id,omitempty"`
	TimeZone   string `json:"time_zone"`
}

type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration,omitempty"`
	TimeZone        string `json:"time_zone,omitempty"`
}

// Slot is a bookable interval. StartAt/EndAt carry the UTC offset; the _ts
// fields are Unix seconds.
type Slot struct {
	StartAt   string `json:"start_at"`
	EndAt     string `json:"end_at"`
	StartAtTS int64  `json:"start_at_ts"`
	EndAtTS   int64  `json:"end_at_ts"`
}

// Start returns the slot start as an instant.
func (s Slot) Start() time.Time { return time.Unix(s.StartAtTS, 0).UTC() }

// End returns the slot end as an instant.
func (s Slot) End() time.Time { return time.Unix(s.EndAtTS, 0).UTC() }

// ClientData describes the person booking a public appointment.
type ClientData struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Locale      string `json:"locale,omitempty"`
	Phone       string `json:"phone"`
	ReferenceID string `json:"reference_id,omitempty"`
	TimeZone    string `json:"time_zone"`
}

// CreatePublicAppointmentBody times are naive local datetimes
// ("2025-12-04T14:00:00") interpreted in TimeZone.
type CreatePublicAppointmentBody struct {
	ClientData ClientData `json:"client_data"`
	EndAt      string     `json:"end_at"`
	ServiceID  string     `json:"service_id"`
	StartAt    string     `json:"start_at"`
	TimeZone   string     `json:"time_zone"`
}

type CreateAppointmentBody struct {
	ServiceID  string      `json:"service_id"`
	ProviderID string      `json:"provider_id,omitempty"`
	ClientID   string      `json:"client_id,omitempty"`
	ClientData *ClientData `json:"client_data,omitempty"`
	StartAt    string      `json:"start_at"`
	EndAt      string      `json:"end_at"`
	TimeZone   string      `json:"time_zone"`
}
