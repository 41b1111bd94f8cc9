package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/solarwerk/pv-planner/pkg/requestid"
)

// RequestID takes the request id from the X-Request-Id header or from chi's
// RequestID middleware. Missing or unusable ids are replaced by a generated one.
// The id is stored in the request context and echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestid.Header)
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		requestID = requestid.Accept(requestID)

		w.Header().Set(requestid.Header, requestID)
		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), requestID)))
	})
}
