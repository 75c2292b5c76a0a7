package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/pkg/config"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

const envHeader = "X-NovaLux-Env"

// Pinger is the health-check surface shared by infra clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports per-check status.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for name, check := range checks {
			if check == nil {
				status[name] = "not configured"
				continue
			}
			if err := check.Ping(ctx); err != nil {
				healthy = false
				status[name] = err.Error()
				if logg != nil {
					logg.Error(logg.WithField(ctx, "check", name), "health.check.failed", err)
				}
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
				WithDetails(status)
			responses.WriteError(ctx, nil, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": status})
	}
}
