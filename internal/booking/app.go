package booking

import (
	"time"

	"go.uber.org/zap"

	"savvycal/pkg/client"
	"savvycal/pkg/query"
)

// App serves public slot browsing and booking for SavvyCal services. It only
// calls /v1/public endpoints, so the API client needs no credential.
type App struct {
	API   *client.Client
	Cache *query.Cache
	Log   *zap.SugaredLogger

	// Services restricts which service ids may be browsed. Empty allows any.
	Services []string
	// DefaultTimeZone is used when a request names none.
	DefaultTimeZone string
	// CORSOrigins are allowed browser origins. Empty allows any.
	CORSOrigins []string
	PublicURL   string

	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) allowed(serviceID string) bool {
	if serviceID == "" {
		return false
	}
	if len(a.Services) == 0 {
		return true
	}
	for _, s := range a.Services {
		if s == serviceID {
			return true
		}
	}
	return false
}
