package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/leadquote-backend/api/responses"
	"github.com/angelmondragon/leadquote-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

const (
	envHeader    = "X-LeadQuote-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency. A nil pinger is reported as disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{
			"database": probe(ctx, dbP),
			"redis":    probe(ctx, redisP),
		}
		for name, status := range checks {
			if status == "down" {
				err := pkgerrors.Newf(pkgerrors.CodeDependency, "%s is not ready", name).WithDetails(checks)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
