package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/logger"
	"github.com/lromero-dev/altiplano-backend/pkg/metrics"
)

const orderExpiryJobName = "order-expiry"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderSweeper interface {
	ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error)
}

type reservationSweeper interface {
	ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error)
}

// OrderExpiryJobParams configure the expiry sweep.
type OrderExpiryJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	Orders       orderSweeper
	Reservations reservationSweeper
	Metrics      *metrics.CronJobMetrics
}

// NewOrderExpiryJob builds the sweep that flips timed-out pending orders and
// stock holds to expired. Both sweeps are single set-based statements; running
// them on any cadence, or concurrently with order creation, is safe because
// they only touch rows already past their deadline.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order sweeper required")
	}
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservation sweeper required")
	}
	return &orderExpiryJob{
		logg:         params.Logger,
		db:           params.DB,
		orders:       params.Orders,
		reservations: params.Reservations,
		metrics:      params.Metrics,
	}, nil
}

type orderExpiryJob struct {
	logg         *logger.Logger
	db           txRunner
	orders       orderSweeper
	reservations reservationSweeper
	metrics      *metrics.CronJobMetrics
}

func (j *orderExpiryJob) Name() string { return orderExpiryJobName }

// Run executes the two sweeps independently; a failure in one never blocks
// the other.
func (j *orderExpiryJob) Run(ctx context.Context) error {
	var errs []error

	if err := j.sweepOrders(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sweep orders: %w", err))
	}
	if err := j.sweepReservations(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sweep reservations: %w", err))
	}
	return multierr.Combine(errs...)
}

func (j *orderExpiryJob) sweepOrders(ctx context.Context) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		expired, err := j.orders.ExpireDue(ctx, tx)
		if err != nil {
			return err
		}
		j.record(ctx, "orders", expired)
		return nil
	})
}

func (j *orderExpiryJob) sweepReservations(ctx context.Context) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		expired, err := j.reservations.ExpireDue(ctx, tx)
		if err != nil {
			return err
		}
		j.record(ctx, "reservations", expired)
		return nil
	})
}

func (j *orderExpiryJob) record(ctx context.Context, entity string, count int64) {
	if count > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{"entity": entity, "count": count})
		j.logg.Info(logCtx, "expired rows swept")
	}
	if j.metrics != nil {
		j.metrics.AddExpired(orderExpiryJobName, entity, count)
	}
}
