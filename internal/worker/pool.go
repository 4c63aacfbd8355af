package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cerfidoc-gamification/internal/repository"

	"github.com/rs/zerolog"
)

// MirrorTask asks a worker to push one user's all-time score into the
// Redis leaderboard mirror.
type MirrorTask struct {
	Username string
	Points   int
}

// Pool manages a set of workers that feed the Redis leaderboard mirror
// asynchronously. SQL writes stay on the request path; the mirror is
// best-effort and a full queue drops the task rather than blocking.
type Pool struct {
	jobs        chan MirrorTask
	workerCount int
	redisRepo   *repository.RedisRepository
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	log         zerolog.Logger
	metrics     *PoolMetrics
}

// PoolMetrics tracks worker pool performance
type PoolMetrics struct {
	mu              sync.RWMutex
	processed       int64
	failed          int64
	backpressure    int64
	totalProcessing time.Duration
}

// NewPool creates a new mirror worker pool
func NewPool(workerCount, queueSize int, redisRepo *repository.RedisRepository, log zerolog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		jobs:        make(chan MirrorTask, queueSize),
		workerCount: workerCount,
		redisRepo:   redisRepo,
		ctx:         ctx,
		cancel:      cancel,
		log:         log.With().Str("component", "worker").Logger(),
		metrics:     &PoolMetrics{},
	}
}

// Start initializes and starts all worker goroutines
func (p *Pool) Start() {
	p.log.Info().Int("workers", p.workerCount).Int("queue", cap(p.jobs)).Msg("starting mirror worker pool")

	for i := 1; i <= p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker is the main worker loop that processes jobs
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			p.log.Debug().Int("worker", id).Msg("worker shutting down")
			return

		case task, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processTask(id, task)
		}
	}
}

// processTask handles a single mirror task with panic recovery so a bad
// task cannot take a worker down.
func (p *Pool) processTask(workerID int, task MirrorTask) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("worker", workerID).Str("username", task.Username).Interface("panic", r).Msg("worker panic recovered")
			p.metrics.incrementFailed()
		}
	}()

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := p.redisRepo.MirrorScore(ctx, task.Username, task.Points)

	processingTime := time.Since(startTime)

	if err != nil {
		p.log.Error().Err(err).Int("worker", workerID).Str("username", task.Username).Dur("took", processingTime).Msg("failed to mirror score")
		p.metrics.incrementFailed()
		return
	}

	p.metrics.recordSuccess(processingTime)
}

// Submit attempts to queue a task with backpressure handling. A full
// queue drops the task: the SQL leaderboard already holds the truth and
// the next successful mirror overwrites the stale value.
func (p *Pool) Submit(task MirrorTask) error {
	select {
	case p.jobs <- task:
		return nil

	default:
		p.log.Warn().Str("username", task.Username).Msg("mirror queue full, dropping task")
		p.metrics.incrementBackpressure()
		return fmt.Errorf("mirror pool queue full (backpressure)")
	}
}

// Shutdown gracefully stops the worker pool
func (p *Pool) Shutdown(timeout time.Duration) error {
	// No more jobs will be added
	close(p.jobs)

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logMetrics()
		return nil

	case <-time.After(timeout):
		p.cancel() // Force cancel remaining operations
		p.log.Warn().Dur("timeout", timeout).Msg("mirror pool shutdown timed out")
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

// GetMetrics returns a snapshot of the pool metrics
func (p *Pool) GetMetrics() map[string]interface{} {
	p.metrics.mu.RLock()
	defer p.metrics.mu.RUnlock()

	avgProcessing := time.Duration(0)
	if p.metrics.processed > 0 {
		avgProcessing = p.metrics.totalProcessing / time.Duration(p.metrics.processed)
	}

	return map[string]interface{}{
		"processed":           p.metrics.processed,
		"failed":              p.metrics.failed,
		"backpressure_events": p.metrics.backpressure,
		"avg_processing_time": avgProcessing.String(),
		"queue_utilization":   fmt.Sprintf("%d/%d", len(p.jobs), cap(p.jobs)),
	}
}

// logMetrics logs the final metrics
func (p *Pool) logMetrics() {
	m := p.GetMetrics()
	p.log.Info().
		Interface("processed", m["processed"]).
		Interface("failed", m["failed"]).
		Interface("backpressure_events", m["backpressure_events"]).
		Interface("avg_processing_time", m["avg_processing_time"]).
		Msg("mirror pool drained")
}

// Metrics helper methods
func (pm *PoolMetrics) recordSuccess(duration time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.processed++
	pm.totalProcessing += duration
}

func (pm *PoolMetrics) incrementFailed() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.failed++
}

func (pm *PoolMetrics) incrementBackpressure() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.backpressure++
}
