package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/yomitan-backend/internal/language"
)

const healthCheckTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

type languageStatus interface {
	Statuses() []language.Status
	Ready() bool
}

// HealthHandler serves /live, /ready and /health.
type HealthHandler struct {
	db      dbPinger
	langs   languageStatus
	version string
}

func NewHealthHandler(db dbPinger, langs languageStatus, version string) *HealthHandler {
	return &HealthHandler{db: db, langs: langs, version: version}
}

// HealthResponse is the JSON body of every health endpoint. Status is "ok",
// "degraded" (some language failed to load) or "down".
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is one component of a /health report. Latency is the ping time
// for the database and the rule load time for a language.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live answers 200 while the process is serving.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 503 when the database is unreachable or no language loaded.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := h.report(r.Context())
	writeJSON(w, resp.httpStatus(), HealthResponse{Status: resp.Status, Timestamp: resp.Timestamp})
}

// Health reports every component. A failed language degrades the service
// without taking it down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := h.report(r.Context())
	resp.Version = h.version
	writeJSON(w, resp.httpStatus(), resp)
}

func (h *HealthHandler) report(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Components: make(map[string]CompStatus)}

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		resp.Components["database"] = CompStatus{Status: "down"}
		resp.Status = "down"
	} else {
		resp.Components["database"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	for _, s := range h.langs.Statuses() {
		comp := CompStatus{Status: "ok", Latency: s.LoadTime.String()}
		if !s.Ready {
			comp = CompStatus{Status: "down"}
			if s.Err != nil {
				comp.Error = s.Err.Error()
			}
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}
		resp.Components["language:"+s.Code] = comp
	}
	if !h.langs.Ready() {
		resp.Status = "down"
	}

	resp.Timestamp = time.Now()
	return resp
}

func (r HealthResponse) httpStatus() int {
	if r.Status == "down" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
