package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lead-insights-service/internal/model"
	"lead-insights-service/internal/repository"
)

// BatchLeadWorker buffers ingested leads and flushes them to the store
// in batches.
type BatchLeadWorker interface {
	Enqueue(lead model.Lead)
	Shutdown()
}

type batchLeadWorker struct {
	repo          repository.LeadRepository
	queue         chan model.Lead
	batchSize     int
	flushInterval time.Duration
	log           zerolog.Logger
	wg            sync.WaitGroup
}

// NewBatchLeadWorker starts the background flush loop. A batch is sent
// when it reaches batchSize or when the flush interval elapses,
// whichever comes first.
func NewBatchLeadWorker(repo repository.LeadRepository, log zerolog.Logger, bufferSize, batchSize int, interval time.Duration) *batchLeadWorker {
	worker := &batchLeadWorker{
		repo:          repo,
		queue:         make(chan model.Lead, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
		log:           log,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue hands a lead to the worker. Blocks when the buffer is full,
// which backpressures the ingest endpoint instead of dropping leads.
func (w *batchLeadWorker) Enqueue(lead model.Lead) {
	w.queue <- lead
}

// Shutdown stops intake, drains the queue and waits for the final flush.
func (w *batchLeadWorker) Shutdown() {
	close(w.queue)
	w.wg.Wait()
	w.log.Info().Msg("lead worker drained")
}

func (w *batchLeadWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.Lead
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case lead, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.flush(batch)
				}
				return
			}
			batch = append(batch, lead)
			if len(batch) >= w.batchSize {
				w.flush(batch)
				batch = nil
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}
		}
	}
}

func (w *batchLeadWorker) flush(leads []model.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, leads); err != nil {
		w.log.Error().Err(err).Int("count", len(leads)).Msg("lead batch insert failed")
		return
	}
	w.log.Debug().Int("count", len(leads)).Msg("lead batch flushed")
}
