package middleware

import (
	"strings"

	"github.com/rs/cors"

	"github.com/heartmarshall/yomitan-backend/internal/config"
)

// CORS returns middleware that handles Cross-Origin Resource Sharing for
// the browser extension and web clients. Preflight requests are answered
// without reaching the handler. With no allowed origins it returns nil and
// the API is same-origin only.
func CORS(cfg config.CORSConfig) Middleware {
	origins := splitList(cfg.AllowedOrigins)
	if len(origins) == 0 {
		return nil
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   splitList(cfg.AllowedMethods),
		AllowedHeaders:   splitList(cfg.AllowedHeaders),
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
	return c.Handler
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
