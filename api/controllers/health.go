package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sakani-app/sakani-backend/api/responses"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sakani-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores. A nil pinger is reported as skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sakani-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["db"] = checkDependency(ctx, dbP)
		checks["redis"] = checkDependency(ctx, redisP)
		for name, status := range checks {
			if status != "ok" && status != "skipped" {
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "readiness check failed")
				}
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

func checkDependency(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
