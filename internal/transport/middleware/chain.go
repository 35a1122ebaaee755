package middleware

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/yomitan-backend/internal/config"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that the first one runs outermost. Nil entries are
// skipped, which lets optional middleware (CORS with no origins) drop out.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				final = mws[i](final)
			}
		}
		return final
	}
}

// Stack is the middleware every API request passes through.
//
// RequestID is outermost so the ID is in the context for the access log and
// in the headers of any response, including a recovered panic. Logger sits
// outside Recovery to record the 500 it writes. CORS is innermost so its
// headers are already set when a handler panics.
func Stack(logger *slog.Logger, cors config.CORSConfig) Middleware {
	return Chain(
		RequestID(),
		Logger(logger),
		Recovery(logger),
		CORS(cors),
	)
}
