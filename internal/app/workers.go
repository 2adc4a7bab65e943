package app

import (
	"context"
	"sync"

	"github.com/weekboard/api/internal/worker"
)

// WorkerGroup tracks background worker lifecycle.
type WorkerGroup struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	WG     *sync.WaitGroup
}

// StartWorkers starts all background workers and returns a WorkerGroup
// that can be used to coordinate their shutdown.
func StartWorkers(
	parentCtx context.Context,
	analyticsWorker *worker.AnalyticsWorker,
) *WorkerGroup {
	workerCtx, workerCancel := context.WithCancel(parentCtx)

	var wg sync.WaitGroup

	if analyticsWorker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analyticsWorker.Start(workerCtx)
		}()
	}

	return &WorkerGroup{
		Ctx:    workerCtx,
		Cancel: workerCancel,
		WG:     &wg,
	}
}
