// cmd/rocketsd/server.go
package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/marvinvr/rockets/pkg/engine"
	"github.com/marvinvr/rockets/pkg/health"
	"github.com/marvinvr/rockets/pkg/logging"
	"github.com/marvinvr/rockets/pkg/render"
	"github.com/marvinvr/rockets/pkg/telemetry"
)

// server owns the simulation loop and the HTTP surface around it. The game
// itself is single-threaded; everything crossing the loop goes through mu.
type server struct {
	logger  *logging.Logger
	game    *engine.Game
	metrics *telemetry.Collector

	limiter  *ipRateLimiter
	upgrader websocket.Upgrader

	// Optional debug view drawn from the loop; nil when disabled.
	renderer *render.TerminalRenderer

	mu       sync.Mutex
	input    engine.Command
	latest   engine.Telemetry
	lastTick time.Time
}

func newServer(logger *logging.Logger, game *engine.Game, metrics *telemetry.Collector) *server {
	return &server{
		logger:  logger,
		game:    game,
		metrics: metrics,
		limiter: newIPRateLimiter(rate.Limit(30), 60),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// runLoop drives the simulation at a fixed tick rate until ctx is
// cancelled. The held command is applied every tick; clients set it via
// POST /simulation/command.
func (s *server) runLoop(ctx context.Context, tickRate float64) {
	interval := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := 1 / tickRate
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			cmd := s.input
			cmd.DeltaTime = dt
			s.latest = s.game.Update(cmd)
			s.lastTick = time.Now()
			snapshot := s.latest

			tick++
			if s.renderer != nil && tick%15 == 0 {
				s.drawDebugView()
			}
			s.mu.Unlock()

			s.metrics.RecordTick(snapshot)
		}
	}
}

// drawDebugView paints the current scene as ASCII. Caller holds mu.
func (s *server) drawDebugView() {
	s.renderer.Clear()
	s.renderer.SetCenter(s.game.Rocket.Position)

	if planet := s.game.Planet; planet != nil {
		planet.Body.Render(s.renderer)
	} else {
		for _, body := range s.game.System.Bodies {
			body.Render(s.renderer)
		}
		for _, asteroid := range s.game.System.Hazards.Asteroids {
			asteroid.Render(s.renderer)
		}
	}
	s.game.Rocket.Render(s.renderer)
	s.renderer.Present()
}

func (s *server) lastTickTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

func (s *server) routes(checker *health.Checker) http.Handler {
	router := mux.NewRouter()
	router.Use(s.correlationMiddleware)

	router.HandleFunc("/simulation/telemetry", s.handleTelemetry).Methods(http.MethodGet)
	router.HandleFunc("/simulation/command", s.handleCommand).Methods(http.MethodPost)
	router.HandleFunc("/simulation/reset", s.handleReset).Methods(http.MethodPost)
	router.HandleFunc("/ws", s.handleWebSocket)

	router.Handle("/metrics", s.metrics.Handler())
	router.HandleFunc("/healthz", checker.LivenessHandler)
	router.HandleFunc("/readyz", checker.ReadinessHandler)

	return router
}

// correlationMiddleware tags every request context with a correlation ID so
// handler logs can be tied back to the request.
func (s *server) correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithCorrelationID(r.Context(), "")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snapshot := s.latest
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snapshot)
}

// handleCommand replaces the held control input. The delta time field is
// owned by the loop, whatever the client sent.
func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(clientIP(r)) {
		http.Error(w, "too many commands", http.StatusTooManyRequests)
		return
	}

	var cmd engine.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.logger.Warn(r.Context(), "rejecting malformed command", "error", err.Error())
		http.Error(w, "malformed command", http.StatusBadRequest)
		return
	}
	cmd.DeltaTime = 0

	s.mu.Lock()
	s.input = cmd
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.game.Reset()
	s.input = engine.Command{}
	s.latest = engine.Telemetry{}
	s.mu.Unlock()

	s.logger.Info(r.Context(), "simulation reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleWebSocket streams telemetry snapshots at 10Hz until the client
// disconnects.
func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			snapshot := s.latest
			s.mu.Unlock()

			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ipRateLimiter keeps one token bucket per client address.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
