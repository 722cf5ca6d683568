package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"savvycal/pkg/client"
	"savvycal/pkg/dates"
	"savvycal/pkg/operations"
	"savvycal/pkg/problems"
	"savvycal/pkg/query"
)

type slotView struct {
	operations.Slot
	Time         string `json:"time"`
	LocalStartAt string `json:"local_start_at"`
	LocalEndAt   string `json:"local_end_at"`
}

type dayView struct {
	Date  string     `json:"date"`
	Label string     `json:"label"`
	Slots []slotView `json:"slots"`
}

// zoneFrom resolves the tz query parameter, falling back to the app default.
func (a *App) zoneFrom(w http.ResponseWriter, r *http.Request) (string, *time.Location, bool) {
	zone := strings.TrimSpace(r.URL.Query().Get("tz"))
	if zone == "" {
		zone = a.DefaultTimeZone
	}
	if zone == "" {
		zone = dates.LocalTimeZone()
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		problems.Write(w, r, http.StatusBadRequest, "invalid-time-zone", "unknown time zone "+zone)
		return "", nil, false
	}
	return zone, loc, true
}

func (a *App) serviceFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "service_id")
	if !a.allowed(id) {
		problems.Write(w, r, http.StatusNotFound, "unknown-service", "service "+id+" is not bookable here")
		return "", false
	}
	return id, true
}

func (a *App) earliestSlot(ctx context.Context, serviceID string) (*operations.Slot, error) {
	key := query.Get(operations.PathPublicEarliestSlot, client.Params{Path: map[string]string{"service_id": serviceID}})
	return query.Fetch(ctx, a.Cache, key, func(ctx context.Context) (*operations.Slot, error) {
		return operations.GetEarliestPublicServiceSlot(ctx, a.API, serviceID)
	})
}

func (a *App) monthSlots(ctx context.Context, serviceID string, r operations.SlotRange) (*operations.List[operations.Slot], error) {
	key := query.Get(operations.PathPublicServiceSlots, operations.PublicServiceSlotsParams(serviceID, r))
	return query.Fetch(ctx, a.Cache, key, func(ctx context.Context) (*operations.List[operations.Slot], error) {
		return operations.ListPublicServiceSlots(ctx, a.API, serviceID, r)
	})
}

// GET /services/{service_id}/earliest?tz=
// Returns the first open slot plus the month and day a calendar should open on.
func (a *App) getEarliest(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := a.serviceFrom(w, r)
	if !ok {
		return
	}
	zone, loc, ok := a.zoneFrom(w, r)
	if !ok {
		return
	}
	slot, err := a.earliestSlot(r.Context(), serviceID)
	if err != nil {
		a.writeUpstreamError(w, r, err)
		return
	}
	resp := map[string]any{"data": nil, "time_zone": zone}
	if slot != nil {
		start := slot.Start().In(loc)
		resp["data"] = slot
		resp["month"] = dates.StartOfMonth(start).Format("2006-01")
		resp["day"] = start.Format(dates.ISODate)
	}
	writeJSON(w, resp, http.StatusOK)
}

// GET /services/{service_id}/slots?month=YYYY-MM&tz=&day=YYYY-MM-DD
func (a *App) getSlots(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := a.serviceFrom(w, r)
	if !ok {
		return
	}
	zone, loc, ok := a.zoneFrom(w, r)
	if !ok {
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		month = a.now().In(loc).Format("2006-01")
	}
	first, last, err := dates.MonthRange(month, loc)
	if err != nil {
		problems.Write(w, r, http.StatusBadRequest, "invalid-month", err.Error())
		return
	}
	var day time.Time
	if d := r.URL.Query().Get("day"); d != "" {
		day, err = time.ParseInLocation(dates.ISODate, d, loc)
		if err != nil {
			problems.Write(w, r, http.StatusBadRequest, "invalid-day", "day must be YYYY-MM-DD")
			return
		}
	}

	rng := operations.SlotRange{From: first.Format(dates.ISODate), Until: last.Format(dates.ISODate)}
	list, err := a.monthSlots(r.Context(), serviceID, rng)
	if err != nil {
		a.writeUpstreamError(w, r, err)
		return
	}

	days, err := groupByDay(list.Data, zone, loc, day)
	if err != nil {
		problems.Write(w, r, http.StatusBadRequest, "invalid-time-zone", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"month":          first.Format("2006-01"),
		"from":           rng.From,
		"until":          rng.Until,
		"time_zone":      zone,
		"time_zone_name": dates.TimeZoneDisplayName(zone, first),
		"days":           days,
	}, http.StatusOK)
}

// groupByDay buckets slots by calendar day in zone, keeping API order. When
// only is set, slots on other days are dropped.
func groupByDay(slots []operations.Slot, zone string, loc *time.Location, only time.Time) ([]dayView, error) {
	days := []dayView{}
	var current time.Time
	for _, s := range slots {
		start := s.Start()
		if !only.IsZero() {
			same, err := dates.IsSameDay(start, only, zone)
			if err != nil {
				return nil, err
			}
			if !same {
				continue
			}
		}
		local := start.In(loc)
		same := false
		if len(days) > 0 {
			var err error
			if same, err = dates.IsSameDay(current, start, zone); err != nil {
				return nil, err
			}
		}
		if !same {
			current = start
			days = append(days, dayView{
				Date:  local.Format(dates.ISODate),
				Label: dates.FormatDate(local, dates.LongWeekdayDate),
			})
		}
		localStart, _ := dates.ToISONaiveDateTime(start, zone)
		localEnd, _ := dates.ToISONaiveDateTime(s.End(), zone)
		d := &days[len(days)-1]
		d.Slots = append(d.Slots, slotView{
			Slot:         s,
			Time:         dates.FormatDate(local, dates.ShortTime),
			LocalStartAt: localStart,
			LocalEndAt:   localEnd,
		})
	}
	return days, nil
}

type bookRequest struct {
	StartAt    string                `json:"start_at"`
	EndAt      string                `json:"end_at"`
	TimeZone   string                `json:"time_zone"`
	ClientData operations.ClientData `json:"client_data"`
}

// toNaive accepts either an instant with an offset or a naive local datetime.
func toNaive(v, zone string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if _, err := time.Parse(dates.NaiveDateTime, v); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		s, err := dates.ToISONaiveDateTime(t, zone)
		return s, err == nil
	}
	return "", false
}

// validate fills in defaults and returns per-field messages.
func (b *bookRequest) validate(serviceID string) (operations.CreatePublicAppointmentBody, map[string]any) {
	errs := map[string]any{}
	out := operations.CreatePublicAppointmentBody{ServiceID: serviceID, ClientData: b.ClientData}

	b.TimeZone = strings.TrimSpace(b.TimeZone)
	loc, err := time.LoadLocation(b.TimeZone)
	if b.TimeZone == "" || err != nil {
		errs["time_zone"] = "must be an IANA time zone"
	} else {
		out.TimeZone = b.TimeZone
		start, okStart := toNaive(b.StartAt, b.TimeZone)
		end, okEnd := toNaive(b.EndAt, b.TimeZone)
		if !okStart {
			errs["start_at"] = "must be an ISO datetime"
		}
		if !okEnd {
			errs["end_at"] = "must be an ISO datetime"
		}
		if okStart && okEnd {
			s, _ := time.ParseInLocation(dates.NaiveDateTime, start, loc)
			e, _ := time.ParseInLocation(dates.NaiveDateTime, end, loc)
			if !e.After(s) {
				errs["end_at"] = "must be after start_at"
			}
		}
		out.StartAt, out.EndAt = start, end
	}

	cd := &out.ClientData
	cd.Email = strings.TrimSpace(cd.Email)
	if _, err := mail.ParseAddress(cd.Email); cd.Email == "" || err != nil {
		errs["client_data.email"] = "must be a valid email address"
	}
	if strings.TrimSpace(cd.FirstName) == "" {
		errs["client_data.first_name"] = "is required"
	}
	if strings.TrimSpace(cd.LastName) == "" {
		errs["client_data.last_name"] = "is required"
	}
	if cd.TimeZone == "" {
		cd.TimeZone = out.TimeZone
	}
	if cd.ReferenceID == "" {
		cd.ReferenceID = cd.Email
	}
	return out, errs
}

// POST /services/{service_id}/appointments
// Books a slot, then drops cached availability for every service.
func (a *App) createAppointment(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := a.serviceFrom(w, r)
	if !ok {
		return
	}
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problems.Write(w, r, http.StatusBadRequest, "invalid-body", "body must be a JSON object")
		return
	}
	body, errs := req.validate(serviceID)
	if len(errs) > 0 {
		p := problems.New(http.StatusUnprocessableEntity, "invalid-booking", "the booking request is invalid")
		p.Instance = r.URL.Path
		p.Errors = errs
		problems.WriteProblem(w, p)
		return
	}

	appt, err := query.Mutate(r.Context(), a.Cache, func(ctx context.Context) (*operations.Appointment, error) {
		return operations.CreatePublicAppointment(ctx, a.API, body)
	},
		query.Key{"get", operations.PathPublicServiceSlots},
		query.Key{"get", operations.PathPublicEarliestSlot},
	)
	if err != nil {
		a.writeUpstreamError(w, r, err)
		return
	}
	a.Log.Infow("appointment booked", "service_id", serviceID, "appointment_id", appt.ID, "start_at", body.StartAt, "time_zone", body.TimeZone)
	writeJSON(w, map[string]any{"data": appt}, http.StatusCreated)
}
