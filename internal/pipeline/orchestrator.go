package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docmodel/internal/chunker"
	"github.com/dgallion1/docmodel/internal/config"
	"github.com/dgallion1/docmodel/internal/indexstore"
	"github.com/dgallion1/docmodel/internal/stats"
	"golang.org/x/time/rate"
)

// Orchestrator manages the document analysis pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	index   *indexstore.Client
	limiter *rate.Limiter
	latency *stats.Latency
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. A nil index runs analysis only.
func NewOrchestrator(cfg config.Config, index *indexstore.Client, log *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		index:   index,
		latency: stats.NewLatency(cfg.StatsWindow),
		log:     log,
		cfg:     cfg,
	}
	if cfg.IndexRateLimit > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.IndexRateLimit), max(1, int(cfg.IndexRateLimit)))
	}
	return o
}

func (o *Orchestrator) workerConfig() WorkerConfig {
	return WorkerConfig{
		Chunk: chunker.Config{
			ChunkSize:    o.cfg.DefaultChunkSize,
			ChunkOverlap: o.cfg.DefaultChunkOverlap,
			MinChunk:     100,
		},
		MaxConcurrentPublish: o.cfg.MaxConcurrentPublish,
		PDFFallback:          o.cfg.PDFFallbackPdftotext,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.index, o.limiter, o.latency, o.log, o.workerConfig())
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// IndexClient returns the index client for direct use by API handlers. It
// is nil when publishing is disabled.
func (o *Orchestrator) IndexClient() *indexstore.Client {
	return o.index
}

// Latency returns the parse latency tracker.
func (o *Orchestrator) Latency() *stats.Latency {
	return o.latency
}
