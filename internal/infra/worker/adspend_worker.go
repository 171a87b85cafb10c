package worker

import (
	"context"
	"log"
	"time"

	"github.com/fieldline/lead-relay/internal/usecase"
)

type refreshRunner interface {
	Execute(ctx context.Context, force bool) (*usecase.RefreshAdSpendOutput, error)
}

// AdSpendWorker pokes the gated refresh once a day; the use case itself
// decides whether today is the eligible day.
type AdSpendWorker struct {
	refresh      refreshRunner
	tickInterval time.Duration
}

func NewAdSpendWorker(refresh refreshRunner) *AdSpendWorker {
	return &AdSpendWorker{
		refresh:      refresh,
		tickInterval: 24 * time.Hour,
	}
}

func (w *AdSpendWorker) Start(ctx context.Context) {
	log.Println("🕒 Ad-spend refresh worker started (daily check)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Ad-spend refresh worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *AdSpendWorker) run(ctx context.Context) {
	out, err := w.refresh.Execute(ctx, false)
	if err != nil {
		log.Printf("❌ Scheduled ad-spend refresh failed: %v", err)
		return
	}
	if out.Executed {
		log.Printf("✅ Scheduled ad-spend refresh done for %s", out.Period)
	}
}
