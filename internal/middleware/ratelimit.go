package middleware

import (
	"net/http"

	"github.com/pberthonneau/trello-copilot/internal/request"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultRatelimitRate = "100-M"

// RateLimit returns middleware that limits requests per client IP using
// an in-process store. Rate uses the limiter format, e.g. "100-M" for
// 100 requests per minute.
func RateLimit(rate string) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		rate = defaultRatelimitRate
	}
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memorystore.NewStore(), parsed)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
