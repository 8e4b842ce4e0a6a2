package printq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/domain"
	"tokopos/internal/service"
	"tokopos/internal/store/memory"
)

type bridgeStub struct {
	mu       sync.Mutex
	status   int
	received []printRequest
}

func (b *bridgeStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/print" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req printRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		b.received = append(b.received, req)
		status := b.status
		b.mu.Unlock()

		if status >= http.StatusBadRequest {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"paper jam"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})
}

func setup(t *testing.T, status int) (*service.Service, *memory.Store, *Worker, *bridgeStub) {
	t.Helper()
	repo := memory.NewSeeded()
	svc := service.New(repo, nil, service.Options{})
	svc.SetPrinter(NewQueue(repo), true)

	stub := &bridgeStub{status: status}
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	worker := NewWorker(repo, svc, NewBridge(server.URL, 2*time.Second), nil)
	return svc, repo, worker, stub
}

func sell(t *testing.T, svc *service.Service) domain.Sale {
	t.Helper()
	ctx := service.WithActor(context.Background(), domain.Actor{Username: "kasir", Role: "cashier"})
	result, err := svc.Checkout(ctx, domain.CheckoutRequest{
		Lines:          []domain.CheckoutLine{{ProductID: "prod-widget-01", Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
		Subtotal:       decimal.NewFromInt(20),
		Total:          decimal.NewFromInt(20),
		ReceivedAmount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	return result.Sale
}

func TestDrainPrintsQueuedReceipts(t *testing.T) {
	svc, repo, worker, stub := setup(t, http.StatusOK)
	sale := sell(t, svc)

	result, err := worker.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DrainResult{Printed: 1}, result)

	require.Len(t, stub.received, 1)
	assert.True(t, strings.HasPrefix(stub.received[0].ReceiptNumber, "SALE-"))
	assert.Contains(t, stub.received[0].Text, "Widget")
	assert.Contains(t, stub.received[0].Text, "20.00")

	jobs, err := repo.ListPrintJobs(context.Background(), domain.PrintPrinted, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, sale.ID, jobs[0].SaleID)
	assert.Equal(t, 1, jobs[0].Attempts)

	again, err := worker.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again.Printed)
}

func TestDrainGivesUpAfterMaxAttempts(t *testing.T) {
	svc, repo, worker, stub := setup(t, http.StatusServiceUnavailable)
	sell(t, svc)

	for attempt := 1; attempt < MaxAttempts; attempt++ {
		result, err := worker.Drain(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DrainResult{Retried: 1}, result, "attempt %d", attempt)
	}
	result, err := worker.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DrainResult{Failed: 1}, result)

	failed, _ := repo.ListPrintJobs(context.Background(), domain.PrintFailed, 0)
	require.Len(t, failed, 1)
	assert.Equal(t, MaxAttempts, failed[0].Attempts)
	assert.Contains(t, failed[0].LastError, "paper jam")
	assert.Len(t, stub.received, MaxAttempts)

	idle, err := worker.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DrainResult{}, idle)
}

func TestEnqueueSetsReceiptNumber(t *testing.T) {
	repo := memory.New()
	queue := NewQueue(repo)

	job, err := queue.Enqueue(context.Background(), domain.Sale{ID: "6f1c2b3a-0000-4000-8000-000000000000"})
	require.NoError(t, err)
	assert.Equal(t, "SALE-6F1C2B3A", job.ReceiptNumber)
	assert.Equal(t, domain.PrintQueued, job.Status)
}

func TestDrainWithoutBridge(t *testing.T) {
	repo := memory.New()
	worker := NewWorker(repo, nil, nil, nil)

	_, err := worker.Drain(context.Background())
	assert.ErrorIs(t, err, ErrBridgeDisabled)
}
