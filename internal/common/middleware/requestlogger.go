// Package middleware provides the HTTP middleware of the development service:
// request logging with request ids, panic recovery and handler timeouts.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/httpx"
	"github.com/thepivo/pivoadmin/internal/common/logtrace"
	"github.com/thepivo/pivoadmin/internal/common/uuid"
)

// RequestLogger logs every request and its outcome. The request id sent by the
// client is reused when present so both sides log the same id; otherwise a new one
// is generated. The id is echoed in the response header.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(logtrace.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := logtrace.WithRequestID(r.Context(), requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		rw := httpx.NewResponseWriter(w)
		rw.Header().Set(logtrace.RequestIDHeader, requestID)

		log.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Str("remote_ip", r.RemoteAddr).
			Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Info().
				Int("status", rw.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		}()

		next.ServeHTTP(rw, r.WithContext(ctx))
	})
}
