package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/enums"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

// Point is one day in a time series.
type Point struct {
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Orders int             `json:"orders"`
}

// Service exposes the admin dashboard series.
type Service interface {
	SalesSeries(ctx context.Context, from, to time.Time) ([]Point, error)
	RefundSeries(ctx context.Context, from, to time.Time) ([]Point, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds an analytics service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db handle is required")
	}
	return &service{db: db}, nil
}

type row struct {
	At    time.Time       `gorm:"column:at"`
	Total decimal.Decimal `gorm:"column:total"`
}

// SalesSeries sums non-canceled order totals per day.
func (s *service) SalesSeries(ctx context.Context, from, to time.Time) ([]Point, error) {
	var rows []row
	err := s.db.WithContext(ctx).
		Raw(`SELECT created_at AS at, total
FROM orders
WHERE status <> ? AND created_at >= ? AND created_at < ?`, enums.OrderStatusCanceled, from, to).
		Scan(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales series")
	}
	return bucketByDay(rows), nil
}

// RefundSeries sums the order totals of approved refunds per day of decision.
func (s *service) RefundSeries(ctx context.Context, from, to time.Time) ([]Point, error) {
	var rows []row
	err := s.db.WithContext(ctx).
		Raw(`SELECT r.updated_at AS at, o.total
FROM refund_requests r
JOIN orders o ON o.order_id = r.order_id
WHERE r.status = ? AND r.updated_at >= ? AND r.updated_at < ?`, enums.RefundStatusApproved, from, to).
		Scan(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund series")
	}
	return bucketByDay(rows), nil
}

func bucketByDay(rows []row) []Point {
	byDay := make(map[string]*Point, len(rows))
	for _, r := range rows {
		day := r.At.UTC().Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &Point{Date: day}
			byDay[day] = point
		}
		point.Total = point.Total.Add(r.Total)
		point.Orders++
	}

	out := make([]Point, 0, len(byDay))
	for _, point := range byDay {
		point.Total = point.Total.Round(2)
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
