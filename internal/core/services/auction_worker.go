package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuctionWorker periodically resolves due auctions across every tenant.
// Resolution is idempotent, so overlapping runs against the same documents
// only cost redundant reads.
type AuctionWorker struct {
	svc      *WorkflowService
	interval time.Duration
	logger   *zap.Logger
}

func NewAuctionWorker(svc *WorkflowService, interval time.Duration, logger *zap.Logger) *AuctionWorker {
	return &AuctionWorker{svc: svc, interval: interval, logger: logger}
}

// Run blocks until the context is cancelled, sweeping on every tick.
func (w *AuctionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("auction worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("auction worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AuctionWorker) sweep(ctx context.Context) {
	tenants, err := w.svc.store.Tenants(ctx)
	if err != nil {
		w.logger.Error("listing tenants failed", zap.Error(err))
		return
	}
	for _, tenant := range tenants {
		n, err := w.svc.ResolveDueAuctions(ctx, tenant)
		if err != nil {
			w.logger.Error("auction sweep failed", zap.String("tenant", tenant), zap.Error(err))
			continue
		}
		if n > 0 {
			w.logger.Info("auctions resolved", zap.String("tenant", tenant), zap.Int("count", n))
		}
	}
}
