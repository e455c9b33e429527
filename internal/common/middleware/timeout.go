package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/httpx"
)

// SetTimeout bounds the time a handler may take. A zero timeout disables the
// middleware.
func SetTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(contextTimeout(timeout, next), timeout, timeoutBody())
	}
}

func contextTimeout(timeout time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
		if ctx.Err() == context.DeadlineExceeded {
			log.Ctx(ctx).Error().Dur("timeout", timeout).Msg("request timed out")
		}
	})
}

func timeoutBody() string {
	return `{"success":false,"error":` + strconv.Quote(httpx.ErrRequestTimeout().Description) + `}`
}
