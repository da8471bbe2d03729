// Package server exposes the compiler over HTTP: a POST /compile
// endpoint returning TAC and assembly as JSON, a GET /compile/stream
// websocket that sends a "started" event for each pipeline phase before
// the compile runs and then one final result or error event, and a
// GET /history endpoint backed by pkg/store. Routing is a single
// net/http.ServeMux registration; the HTTP handlers report failures
// through the same ErrorResponse JSON shape, while the websocket
// handler reports them as a streamEvent with status "error".
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/triadc/triadc/pkg/cache"
	"github.com/triadc/triadc/pkg/diagnostics"
	"github.com/triadc/triadc/pkg/driver"
	"github.com/triadc/triadc/pkg/logging"
	"github.com/triadc/triadc/pkg/metrics"
	"github.com/triadc/triadc/pkg/store"
)

// ErrorResponse is the standardized JSON error body, matching the
// teacher's pkg/server ErrorResponse field-for-field.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server wires the compiler driver together with the ambient and
// domain stack for the HTTP surface.
type Server struct {
	driver  *driver.Driver
	logger  *logging.Logger
	metrics *metrics.Metrics
	cache   cache.Store
	history store.Store // nil disables /history

	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New builds a Server. history may be nil when no store is configured.
func New(logger *logging.Logger, m *metrics.Metrics, c cache.Store, history store.Store) *Server {
	s := &Server{
		driver:  driver.New(),
		logger:  logger,
		metrics: m,
		cache:   c,
		history: history,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /compile", s.handleCompile)
	mux.HandleFunc("GET /compile/stream", s.handleCompileStream)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.Handle("GET /metrics", m.Handler())
	s.mux = mux

	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type compileRequest struct {
	Source string `json:"source"`
}

type compileResponse struct {
	JobID    string `json:"job_id"`
	TAC      string `json:"tac"`
	Assembly string `json:"assembly"`
	Cached   bool   `json:"cached"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Status: status, Error: errType, Message: message})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	jobID := logging.NewJobID()
	log := s.logger.WithJobID(jobID)
	start := time.Now()

	key := cache.KeyFor(req.Source)
	if entry, err := s.cache.Get(r.Context(), key); err == nil {
		s.metrics.RecordCacheHit()
		log.Info("cache hit")
		s.writeResult(w, jobID, entry.TAC, entry.Assembly, true)
		return
	}
	s.metrics.RecordCacheMiss()

	res, err := s.driver.Compile(req.Source)
	if err != nil {
		s.metrics.ObserveCompile("error", "total", time.Since(start).Seconds())
		ce := diagnostics.FromError(err, req.Source)
		log.ErrorWithFields("compile failed", map[string]interface{}{"phase": ce.Phase})
		s.recordHistory(r.Context(), jobID, req.Source, ce.Phase+"_error", ce.Message, "", "")
		writeError(w, http.StatusUnprocessableEntity, ce.Phase+"_error", ce.Message)
		return
	}

	s.metrics.ObserveCompile("success", "total", time.Since(start).Seconds())
	s.cache.Set(r.Context(), key, cache.Entry{TAC: res.TAC, Assembly: res.Assembly}, time.Hour)
	s.recordHistory(r.Context(), jobID, req.Source, "success", "", res.TAC, res.Assembly)
	log.Info("compile succeeded")

	s.writeResult(w, jobID, res.TAC, res.Assembly, false)
}

func (s *Server) writeResult(w http.ResponseWriter, jobID, tac, asm string, cached bool) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(compileResponse{JobID: jobID, TAC: tac, Assembly: asm, Cached: cached})
}

func (s *Server) recordHistory(ctx context.Context, jobID, source, outcome, errMsg, tac, asm string) {
	if s.history == nil {
		return
	}
	s.history.Record(ctx, store.Record{
		JobID: jobID, Source: source, Outcome: outcome, Error: errMsg,
		TAC: tac, Assembly: asm, CreatedAt: time.Now(),
	})
}

// streamEvent is one phase-progress message pushed to the websocket
// client as the compile runs.
type streamEvent struct {
	Phase  string `json:"phase"`
	Status string `json:"status"` // "started" | "done" | "error"
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleCompileStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req compileRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamEvent{Phase: "request", Status: "error", Detail: "invalid JSON body"})
		return
	}

	jobID := logging.NewJobID()
	for _, phase := range []string{"parse", "analyze", "asmgen"} {
		conn.WriteJSON(streamEvent{Phase: phase, Status: "started"})
	}

	res, err := s.driver.Compile(req.Source)
	if err != nil {
		ce := diagnostics.FromError(err, req.Source)
		conn.WriteJSON(streamEvent{Phase: ce.Phase, Status: "error", Detail: ce.Message})
		return
	}

	conn.WriteJSON(struct {
		streamEvent
		JobID    string `json:"job_id"`
		TAC      string `json:"tac"`
		Assembly string `json:"assembly"`
	}{
		streamEvent: streamEvent{Phase: "asmgen", Status: "done"},
		JobID:       jobID,
		TAC:         res.TAC,
		Assembly:    res.Assembly,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotImplemented, "not_configured", "no history store is configured")
		return
	}

	records, err := s.history.History(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
