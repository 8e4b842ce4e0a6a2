package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/logger"
	"tokopos/internal/printq"
)

type LowStockScanner interface {
	ScanLowStock(ctx context.Context) ([]domain.StockAlert, error)
}

type Summarizer interface {
	DailySummary(ctx context.Context, date string) (domain.DailySummary, error)
}

type Drainer interface {
	Drain(ctx context.Context) (printq.DrainResult, error)
}

// Specs holds the cron expressions for each job. An empty spec disables the
// job.
type Specs struct {
	LowStock     string
	PrintQueue   string
	DailySummary string
}

// Scheduler manages the background jobs.
type Scheduler struct {
	cron    *cron.Cron
	stock   LowStockScanner
	reports Summarizer
	printer Drainer
	specs   Specs
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewScheduler builds a scheduler. printer may be nil when no print bridge is
// configured.
func NewScheduler(specs Specs, stock LowStockScanner, reports Summarizer, printer Drainer, timeout time.Duration, log *zap.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		stock:   stock,
		reports: reports,
		printer: printer,
		specs:   specs,
		timeout: timeout,
		logger:  logger.OrNop(log).Named("jobs"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start registers every enabled job and starts the cron loop. A bad spec
// fails Start before anything runs.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"low-stock scan", s.specs.LowStock, s.RunLowStockScan},
		{"print queue", s.specs.PrintQueue, s.RunPrintDrain},
		{"daily summary", s.specs.DailySummary, s.RunDailySummary},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		if job.name == "print queue" && s.printer == nil {
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return fmt.Errorf("schedule %s %q: %w", job.name, job.spec, err)
		}
		s.logger.Info("job scheduled", zap.String("job", job.name), zap.String("spec", job.spec))
	}

	s.logger.Info("starting scheduler")
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Scheduler) RunLowStockScan() {
	ctx, cancel := s.jobContext()
	defer cancel()

	alerts, err := s.stock.ScanLowStock(ctx)
	if err != nil {
		s.logger.Error("low-stock scan failed", zap.Error(err))
		return
	}
	for _, alert := range alerts {
		s.logger.Warn("product low on stock",
			zap.String("product_id", alert.ProductID),
			zap.String("product_name", alert.ProductName),
			zap.Int("stock_quantity", alert.StockQuantity),
			zap.Int("min_stock_level", alert.MinStockLevel),
		)
	}
	s.logger.Info("low-stock scan finished", zap.Int("alerts", len(alerts)))
}

func (s *Scheduler) RunPrintDrain() {
	if s.printer == nil {
		return
	}
	ctx, cancel := s.jobContext()
	defer cancel()

	result, err := s.printer.Drain(ctx)
	if err != nil && !errors.Is(err, printq.ErrBridgeDisabled) {
		s.logger.Error("print queue drain failed", zap.Error(err))
		return
	}
	if result.Printed+result.Retried+result.Failed > 0 {
		s.logger.Info("print queue drained",
			zap.Int("printed", result.Printed),
			zap.Int("retried", result.Retried),
			zap.Int("failed", result.Failed),
		)
	}
}

// RunDailySummary logs the summary of the previous UTC day. It is meant to
// run shortly after midnight.
func (s *Scheduler) RunDailySummary() {
	ctx, cancel := s.jobContext()
	defer cancel()

	day := s.now().AddDate(0, 0, -1).Format("2006-01-02")
	summary, err := s.reports.DailySummary(ctx, day)
	if err != nil {
		s.logger.Error("daily summary failed", zap.String("date", day), zap.Error(err))
		return
	}
	s.logger.Info("daily summary",
		zap.String("date", summary.Date),
		zap.Int("sales", summary.SalesCount),
		zap.Int("cancelled", summary.CancelledCount),
		zap.String("gross_total", summary.GrossTotal.String()),
		zap.String("tax_total", summary.TaxTotal.String()),
		zap.Int("items_sold", summary.ItemsSold),
	)
}
