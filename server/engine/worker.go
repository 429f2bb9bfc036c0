package engine

import (
	"github.com/cyclopcam/logs"
)

type workerJob struct {
	uploadID int64
	path     string
	done     chan *RunSummary
}

// Worker runs video analysis jobs on a single background goroutine, so at
// most one run is touching the vision stack at a time. Records for each
// upload land in the database as the run progresses; the channel returned by
// Submit delivers the final summary.
type Worker struct {
	log    logs.Log
	engine *Engine
	jobs   chan workerJob
	stop   chan bool
}

func NewWorker(log logs.Log, engine *Engine, queueDepth int) *Worker {
	if queueDepth <= 0 {
		queueDepth = 16
	}
	w := &Worker{
		log:    log,
		engine: engine,
		jobs:   make(chan workerJob, queueDepth),
		stop:   make(chan bool),
	}
	go w.run()
	return w
}

// Submit queues a video for analysis. The returned channel receives exactly
// one summary when the run finishes, and is buffered so the caller may
// discard it.
func (w *Worker) Submit(uploadID int64, path string) <-chan *RunSummary {
	done := make(chan *RunSummary, 1)
	w.jobs <- workerJob{
		uploadID: uploadID,
		path:     path,
		done:     done,
	}
	return done
}

// Close finishes all queued jobs and stops the worker goroutine.
// Submit must not be called after Close.
func (w *Worker) Close() {
	close(w.jobs)
	<-w.stop
}

func (w *Worker) run() {
	for job := range w.jobs {
		job.done <- w.engine.RunVideo(job.uploadID, job.path)
	}
	w.log.Infof("Analysis worker stopped")
	close(w.stop)
}
