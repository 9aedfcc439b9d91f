package server

import (
	"context"
	"net/http"

	"github.com/segmentio/ksuid"
)

type ctxKey int

const requestIDKey ctxKey = 0

// requestIDHeader is set on every response so batch submissions can be
// correlated with server logs.
const requestIDHeader = "X-Request-Id"

// RequestID assigns a ksuid to each request, honoring an inbound header
// when the caller supplies its own.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id from the context, if any.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
