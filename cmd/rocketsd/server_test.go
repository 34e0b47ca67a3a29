// cmd/rocketsd/server_test.go
package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/engine"
	"github.com/marvinvr/rockets/pkg/health"
	"github.com/marvinvr/rockets/pkg/logging"
	"github.com/marvinvr/rockets/pkg/telemetry"
)

func testServer() (*server, http.Handler) {
	game := engine.NewGame(config.DefaultConfig())
	srv := newServer(logging.NewLogger(), game, telemetry.NewCollector())
	checker := health.NewChecker()
	return srv, srv.routes(checker)
}

func TestTelemetryEndpoint(t *testing.T) {
	srv, handler := testServer()
	srv.latest = srv.game.Update(engine.Command{DeltaTime: 1.0 / 60})

	req := httptest.NewRequest(http.MethodGet, "/simulation/telemetry", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap engine.Telemetry
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding telemetry: %v", err)
	}
	if snap.Tick != 1 || snap.Phase != "launch" {
		t.Errorf("telemetry tick/phase = %d/%q, want 1/launch", snap.Tick, snap.Phase)
	}
}

func TestCommandEndpointStoresInput(t *testing.T) {
	srv, handler := testServer()

	body := strings.NewReader(`{"forward": true, "boost": true, "deltaTime": 99}`)
	req := httptest.NewRequest(http.MethodPost, "/simulation/command", body)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !srv.input.Forward || !srv.input.Boost {
		t.Errorf("stored input = %+v, want forward+boost", srv.input)
	}
	// The loop owns the tick length.
	if srv.input.DeltaTime != 0 {
		t.Errorf("client delta time %v leaked into the loop", srv.input.DeltaTime)
	}
}

func TestCommandEndpointRejectsMalformedBody(t *testing.T) {
	_, handler := testServer()

	req := httptest.NewRequest(http.MethodPost, "/simulation/command", strings.NewReader("{not json"))
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for malformed body, want 400", rec.Code)
	}
}

func TestCommandEndpointRateLimits(t *testing.T) {
	_, handler := testServer()

	var limited bool
	for i := 0; i < 200; i++ {
		req := httptest.NewRequest(http.MethodPost, "/simulation/command", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.3:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("200 rapid commands were never rate limited")
	}
}

func TestResetEndpoint(t *testing.T) {
	srv, handler := testServer()
	for i := 0; i < 10; i++ {
		srv.latest = srv.game.Update(engine.Command{Forward: true, DeltaTime: 1.0 / 60})
	}
	srv.input = engine.Command{Forward: true}

	req := httptest.NewRequest(http.MethodPost, "/simulation/reset", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if srv.game.Tick != 0 || srv.input.Forward {
		t.Errorf("tick/input = %d/%+v after reset, want 0/cleared", srv.game.Tick, srv.input)
	}
}

func TestIPRateLimiterIsPerClient(t *testing.T) {
	l := newIPRateLimiter(1, 1)

	if !l.allow("a") {
		t.Fatal("first request from a denied")
	}
	if l.allow("a") {
		t.Error("burst of 1 allowed a second immediate request from a")
	}
	if !l.allow("b") {
		t.Error("fresh client b was denied by a's bucket")
	}
}

func TestLastTickTime(t *testing.T) {
	srv, _ := testServer()
	if !srv.lastTickTime().IsZero() {
		t.Error("last tick set before the loop ran")
	}
	now := time.Now()
	srv.mu.Lock()
	srv.lastTick = now
	srv.mu.Unlock()
	if !srv.lastTickTime().Equal(now) {
		t.Error("last tick not reported back")
	}
}
