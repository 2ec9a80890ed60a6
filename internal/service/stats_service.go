package service

import (
	"context"
	"fmt"
	"time"

	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

// DailyBucket is one local calendar day of the order histogram.
type DailyBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// OrderStats is the aggregate report over the order collection.
type OrderStats struct {
	Total       int           `json:"total"`
	Pending     int           `json:"pending"`
	Processing  int           `json:"processing"`
	Completed   int           `json:"completed"`
	Cancelled   int           `json:"cancelled"`
	ThisWeek    int           `json:"thisWeek"`
	ThisMonth   int           `json:"thisMonth"`
	DailyOrders []DailyBucket `json:"dailyOrders"`
}

// StatsService produces the dashboard reports. Every call recomputes from a
// full scan; there is no caching or incremental counting.
type StatsService interface {
	OrderStats(ctx context.Context) (*OrderStats, error)
}

type statsService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(orderRepo repository.OrderRepository) StatsService {
	return &statsService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// OrderStats scans all orders and aggregates totals, per-status counts,
// trailing-window counts and a 7-bucket daily histogram, oldest day first.
func (s *statsService) OrderStats(ctx context.Context) (*OrderStats, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	now := s.now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	stats := &OrderStats{Total: len(orders)}
	for i := range orders {
		o := &orders[i]
		switch o.Status {
		case model.OrderStatusPending:
			stats.Pending++
		case model.OrderStatusProcessing:
			stats.Processing++
		case model.OrderStatusCompleted:
			stats.Completed++
		case model.OrderStatusCancelled:
			stats.Cancelled++
		}
		if o.CreatedAt.After(weekAgo) {
			stats.ThisWeek++
		}
		if o.CreatedAt.After(monthAgo) {
			stats.ThisMonth++
		}
	}

	stats.DailyOrders = dailyHistogram(orders, now)
	return stats, nil
}

// dailyHistogram buckets orders by local calendar day over the trailing
// seven days including today, oldest first.
func dailyHistogram(orders []model.Order, now time.Time) []DailyBucket {
	buckets := make([]DailyBucket, 0, 7)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		count := 0
		for j := range orders {
			created := orders[j].CreatedAt.In(now.Location())
			if !created.Before(dayStart) && created.Before(dayEnd) {
				count++
			}
		}
		buckets = append(buckets, DailyBucket{
			Date:  dayStart.Format("2006-01-02"),
			Count: count,
		})
	}
	return buckets
}
