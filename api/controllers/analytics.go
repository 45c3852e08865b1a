package controllers

import (
	"net/http"
	"time"

	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/internal/analytics"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// AnalyticsController serves the admin dashboard time series.
type AnalyticsController struct {
	service analytics.Service
	logg    *logger.Logger
}

func NewAnalyticsController(service analytics.Service, logg *logger.Logger) *AnalyticsController {
	return &AnalyticsController{service: service, logg: logg}
}

func (c *AnalyticsController) Sales(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	points, err := c.service.SalesSeries(r.Context(), from, to)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, points)
}

func (c *AnalyticsController) Refunds(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	points, err := c.service.RefundSeries(r.Context(), from, to)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, points)
}

// parseDateRange reads from/to query params as YYYY-MM-DD, defaulting to the
// last 30 days. The upper bound is exclusive.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	to := now.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must be YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must fall after from")
	}
	return from, to, nil
}
