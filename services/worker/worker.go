package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"boradedesconto/offerworker/internal/ingest"
	"boradedesconto/offerworker/logger"
	apperrors "boradedesconto/offerworker/pkg/errors"
)

// Worker fans merchant ingestion runs out and publishes stored offers.
// Runs are independent units of work: one merchant's failure never prevents
// the others from proceeding.
type Worker struct {
	ingesters []ingest.Runner
	publisher Publisher
	log       *logger.Logger
	running   atomic.Bool
}

// Publisher is the subset of the stream publisher the worker needs.
type Publisher interface {
	Publish(merchant string, message []byte) error
	TrimStreams() error
}

// NewWorker creates a new worker
func NewWorker(ingesters []ingest.Runner, pub Publisher) *Worker {
	return &Worker{
		ingesters: ingesters,
		publisher: pub,
		log:       logger.ForWorker(),
	}
}

// RunOnce runs every merchant ingestion concurrently and waits for all of
// them, then trims the announcement streams. At most one cycle runs at a
// time: browsing sessions live as long as their ingesters, so an overlapping
// cycle would drive the same session from two goroutines. A cycle that
// arrives while one is in flight is skipped, not queued.
func (w *Worker) RunOnce(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		w.log.Warn().Msg("Previous ingestion cycle still running, skipping")
		return
	}
	defer w.running.Store(false)

	start := time.Now()

	var wg sync.WaitGroup
	for _, ing := range w.ingesters {
		wg.Add(1)
		go func(ing ingest.Runner) {
			defer wg.Done()
			w.runAndPublish(ctx, ing)
		}(ing)
	}
	wg.Wait()

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			w.log.Error().Err(err).Msg("Stream trimming failed")
		}
	}

	w.log.Info().Dur("elapsed", time.Since(start)).Msg("Ingestion cycle finished")
}

// runAndPublish executes one merchant run and announces every stored offer.
func (w *Worker) runAndPublish(ctx context.Context, ing ingest.Runner) {
	merchant := ing.Merchant()

	stored, err := ing.Run(ctx)
	if err != nil {
		w.log.Error().Err(err).Str("merchant", merchant).Msg("Ingestion run failed")
	}

	if w.publisher == nil {
		return
	}

	for _, offer := range stored {
		payload, err := offer.ToJSON()
		if err != nil {
			w.log.Error().Err(err).Str("merchant", merchant).Msg("Failed to encode offer")
			continue
		}

		if err := w.publisher.Publish(merchant, payload); err != nil {
			pubErr := apperrors.NewPublisher(merchant, "publish "+offer.ExternalID, err)
			w.log.Error().Err(pubErr).Msg("Failed to publish offer")
		}
	}
}
