package app

import (
	"context"
	"fmt"
	"time"

	"mjson5/internal/engine/treesitter"
	"mjson5/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	f := s.app.Formatter()
	if f == nil {
		status.Status = "degraded"
		status.Components["formatter"] = "missing"
		return status
	}
	status.Components["formatter"] = "ok"

	switch p := f.Parser().(type) {
	case *treesitter.Backend:
		pool := p.Pool()
		status.Components["parser"] = fmt.Sprintf("ok (%s, %d parsers in use)", s.app.Backend(), pool.Stats())
		if oldest := pool.Oldest(); oldest > time.Minute {
			status.Status = "degraded"
			status.Components["parser"] += fmt.Sprintf(", lease held %s", oldest.Round(time.Second))
		}
	case nil:
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	default:
		status.Components["parser"] = fmt.Sprintf("ok (%s)", s.app.Backend())
	}

	s.app.watchMu.Lock()
	watching := s.app.activeWatcher != nil
	roots := len(s.app.watchRoots)
	s.app.watchMu.Unlock()
	if watching {
		status.Components["watcher"] = fmt.Sprintf("running (%d roots)", roots)
	} else {
		status.Components["watcher"] = "stopped"
	}

	status.Components["memory"] = util.ReadMemoryUsage().String()
	if ctx.Err() != nil {
		status.Status = "degraded"
	}
	return status
}
