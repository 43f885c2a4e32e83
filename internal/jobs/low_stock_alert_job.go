package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"logistics/internal/core/application/usecases/queries"
)

// LowStockAlertJob periodically checks the inventory for items at or below
// their minimum quantity and logs a warning per item. The log stream is the
// alerting channel; anything watching it can page or open tickets.
type LowStockAlertJob struct {
	handler  queries.GetLowStockItemsQueryHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewLowStockAlertJob creates the low stock check with a six-field cron
// schedule.
func NewLowStockAlertJob(handler queries.GetLowStockItemsQueryHandler, schedule string, logger *slog.Logger) *LowStockAlertJob {
	return &LowStockAlertJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "low_stock_alert_job"),
	}
}

// Start begins the periodic low stock check.
func (j *LowStockAlertJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Low stock alert job started", "schedule", j.schedule)
	return nil
}

// Stop stops the periodic low stock check.
func (j *LowStockAlertJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Low stock alert job stopped")
}

func (j *LowStockAlertJob) run() {
	ctx := context.Background()

	items, err := j.handler.Handle(ctx, queries.NewGetLowStockItemsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Low stock check failed", "error", err)
		return
	}

	for _, item := range items {
		j.logger.WarnContext(ctx, "Item is low on stock",
			"sku", item.SKU,
			"name", item.Name,
			"quantity", item.Quantity,
			"minimumQuantity", item.MinimumQuantity,
		)
	}
}
