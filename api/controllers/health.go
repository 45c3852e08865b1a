package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/everbean/roastery-backend/api/responses"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and dependency readiness.
type HealthController struct {
	db    pinger
	redis pinger
	logg  *logger.Logger
}

func NewHealthController(db, redis pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logg: logg}
}

// Healthz answers liveness probes without touching dependencies.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

// Readyz verifies the database and cache are reachable.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	for name, dep := range map[string]pinger{"database": c.db, "redis": c.redis} {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		responses.WriteError(ctx, c.logg, w,
			pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
		return
	}
	responses.WriteSuccess(w, checks)
}
