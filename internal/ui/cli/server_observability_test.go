package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	coreapp "mjson5/internal/core/app"
	"mjson5/internal/core/config"
)

func TestObservabilityServer(t *testing.T) {
	app, err := coreapp.New(config.Default())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	srv := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(app))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Stop(context.Background())
	base := "http://" + srv.Addr()

	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	var status coreapp.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if status.Status != "up" || status.Components["formatter"] != "ok" {
		t.Fatalf("health = %+v", status)
	}

	metrics, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer metrics.Body.Close()
	body, err := io.ReadAll(metrics.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "mjson5fmt_format_seconds") {
		t.Fatal("metrics output does not include mjson5fmt_format_seconds")
	}
}
