package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"recruitmate/match-engine/internal/models"
)

// MatchDispatcher is the task/worker-queue boundary around the engine:
// a bounded pool of workers executes the CPU-bound match computation so
// one expensive request cannot stall intake of others.
type MatchDispatcher interface {
	Start(ctx context.Context)
	Stop()
	Dispatch(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error)
}

type matchResult struct {
	resp *models.MatchResponse
	err  error
}

type matchJob struct {
	id       uuid.UUID
	ctx      context.Context
	req      *models.MatchRequest
	resultCh chan matchResult
}

type matchDispatcher struct {
	engine      MatchEngine
	jobQueue    chan matchJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewMatchDispatcher(engine MatchEngine, concurrency, queueSize int) MatchDispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	return &matchDispatcher{
		engine:      engine,
		jobQueue:    make(chan matchJob, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements MatchDispatcher.
func (d *matchDispatcher) Start(ctx context.Context) {
	log.Printf("🚀 Starting match dispatcher with %d workers\n", d.concurrency)

	for i := 0; i < d.concurrency; i++ {
		d.wg.Add(1)
		go d.processJobs(ctx, i+1)
	}
}

// Stop implements MatchDispatcher.
func (d *matchDispatcher) Stop() {
	log.Println("🛑 Stopping match dispatcher...")
	close(d.stopChan)
	d.wg.Wait()
	log.Println("✅ Match dispatcher stopped")
}

// Dispatch enqueues one match computation and blocks until its result is
// ready, the caller's context ends, or the dispatcher shuts down.
func (d *matchDispatcher) Dispatch(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	job := matchJob{
		id:       uuid.New(),
		ctx:      ctx,
		req:      req,
		resultCh: make(chan matchResult, 1),
	}

	select {
	case d.jobQueue <- job:
	case <-ctx.Done():
		return nil, fmt.Errorf("request cancelled before dispatch: %w", ctx.Err())
	case <-d.stopChan:
		return nil, fmt.Errorf("match dispatcher is shutting down")
	}

	select {
	case result := <-job.resultCh:
		return result.resp, result.err
	case <-ctx.Done():
		return nil, fmt.Errorf("request cancelled while matching: %w", ctx.Err())
	case <-d.stopChan:
		return nil, fmt.Errorf("match dispatcher is shutting down")
	}
}

func (d *matchDispatcher) processJobs(ctx context.Context, workerID int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ctx.Done():
			return
		case job := <-d.jobQueue:
			if err := job.ctx.Err(); err != nil {
				job.resultCh <- matchResult{err: err}
				continue
			}
			resp, err := d.engine.CalculateMatch(job.ctx, job.req)
			if err != nil {
				log.Printf("❌ Worker #%d failed match %s: %v\n", workerID, job.id, err)
			}
			job.resultCh <- matchResult{resp: resp, err: err}
		}
	}
}
