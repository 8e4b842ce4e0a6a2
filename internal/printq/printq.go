// Package printq queues receipts for the store's print bridge and drains the
// queue in the background.
package printq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/logger"
	"tokopos/internal/service"
	"tokopos/internal/xid"
)

// MaxAttempts is how many times a job is sent before it is marked failed.
const MaxAttempts = 3

const drainBatch = 20

var ErrBridgeDisabled = errors.New("print bridge url not configured")

// Jobs is the slice of the repository the queue needs.
type Jobs interface {
	CreatePrintJob(ctx context.Context, job domain.PrintJob) error
	ListPrintJobs(ctx context.Context, status domain.PrintStatus, limit int) ([]domain.PrintJob, error)
	UpdatePrintJob(ctx context.Context, job domain.PrintJob) error
}

type ReceiptSource interface {
	BuildReceipt(ctx context.Context, saleID string) (*domain.Receipt, error)
}

// Printer delivers rendered receipt text.
type Printer interface {
	Print(ctx context.Context, receiptNumber string, text string) error
}

type Queue struct {
	jobs Jobs
	now  func() time.Time
}

func NewQueue(jobs Jobs) *Queue {
	return &Queue{jobs: jobs, now: func() time.Time { return time.Now().UTC() }}
}

func (q *Queue) Enqueue(ctx context.Context, sale domain.Sale) (*domain.PrintJob, error) {
	now := q.now()
	job := domain.PrintJob{
		ID:            xid.New(),
		SaleID:        sale.ID,
		ReceiptNumber: ledger.SaleNumber(sale.ID),
		Status:        domain.PrintQueued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := q.jobs.CreatePrintJob(ctx, job); err != nil {
		return nil, fmt.Errorf("queue receipt %s: %w", job.ReceiptNumber, err)
	}
	return &job, nil
}

var _ service.ReceiptQueue = (*Queue)(nil)

// Bridge posts receipts to the print bridge over HTTP.
type Bridge struct {
	client *resty.Client
}

func NewBridge(baseURL string, timeout time.Duration) *Bridge {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Bridge{client: client}
}

type printRequest struct {
	ReceiptNumber string `json:"receipt_number"`
	Text          string `json:"text"`
}

type bridgeError struct {
	Error string `json:"error"`
}

func (b *Bridge) Print(ctx context.Context, receiptNumber string, text string) error {
	apiErr := new(bridgeError)
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(printRequest{ReceiptNumber: receiptNumber, Text: text}).
		SetError(apiErr).
		Post("/print")
	if err != nil {
		return fmt.Errorf("send receipt %s: %w", receiptNumber, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("print bridge error: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return nil
}

type DrainResult struct {
	Printed int `json:"printed"`
	Retried int `json:"retried"`
	Failed  int `json:"failed"`
}

type Worker struct {
	jobs     Jobs
	receipts ReceiptSource
	printer  Printer
	logger   *zap.Logger
	now      func() time.Time
}

// NewWorker builds a worker. A nil printer makes Drain a no-op.
func NewWorker(jobs Jobs, receipts ReceiptSource, printer Printer, log *zap.Logger) *Worker {
	return &Worker{
		jobs:     jobs,
		receipts: receipts,
		printer:  printer,
		logger:   logger.OrNop(log).Named("printq"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Drain sends every queued job once. A failed send leaves the job queued
// until it has used MaxAttempts, then marks it failed.
func (w *Worker) Drain(ctx context.Context) (DrainResult, error) {
	var result DrainResult
	if w.printer == nil {
		return result, ErrBridgeDisabled
	}

	jobs, err := w.jobs.ListPrintJobs(ctx, domain.PrintQueued, drainBatch)
	if err != nil {
		return result, fmt.Errorf("list print jobs: %w", err)
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		sendErr := w.send(ctx, job)

		job.Attempts++
		job.UpdatedAt = w.now()
		switch {
		case sendErr == nil:
			job.Status = domain.PrintPrinted
			job.LastError = ""
			result.Printed++
		case job.Attempts >= MaxAttempts:
			job.Status = domain.PrintFailed
			job.LastError = sendErr.Error()
			result.Failed++
			w.logger.Warn("giving up on receipt", zap.String("receipt_number", job.ReceiptNumber), zap.Int("attempts", job.Attempts), zap.Error(sendErr))
		default:
			job.LastError = sendErr.Error()
			result.Retried++
			w.logger.Warn("receipt print failed", zap.String("receipt_number", job.ReceiptNumber), zap.Int("attempts", job.Attempts), zap.Error(sendErr))
		}

		if err := w.jobs.UpdatePrintJob(ctx, job); err != nil {
			w.logger.Error("failed to update print job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	return result, nil
}

func (w *Worker) send(ctx context.Context, job domain.PrintJob) error {
	receipt, err := w.receipts.BuildReceipt(ctx, job.SaleID)
	if err != nil {
		return fmt.Errorf("build receipt: %w", err)
	}
	return w.printer.Print(ctx, job.ReceiptNumber, service.RenderReceiptText(*receipt))
}
