// internal/common/camunda/worker.go
package camunda

import (
	"sort"
	"sync"
	"time"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is the signature every worker's Handle method has.
type JobHandler func(client worker.JobClient, job entities.Job)

// Workers opens job workers on one client and closes them together.
type Workers struct {
	client zbc.Client
	logger logger.Logger

	mu      sync.Mutex
	running map[string]worker.JobWorker
}

func NewWorkers(client zbc.Client, log logger.Logger) *Workers {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Workers{
		client:  client,
		logger:  log,
		running: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless wcfg disables it. It reports
// whether a worker was opened.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jobWorker := w.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.mu.Lock()
	w.running[taskType] = jobWorker
	w.mu.Unlock()

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return true
}

// Running returns the task types with an open worker.
func (w *Workers) Running() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.running))
	for taskType := range w.running {
		out = append(out, taskType)
	}
	sort.Strings(out)
	return out
}

// Close stops polling on every worker and waits up to timeout for in-flight
// jobs.
func (w *Workers) Close(timeout time.Duration) {
	w.mu.Lock()
	running := w.running
	w.running = make(map[string]worker.JobWorker)
	w.mu.Unlock()

	var wg sync.WaitGroup
	for taskType, jw := range running {
		wg.Add(1)
		go func(taskType string, jw worker.JobWorker) {
			defer wg.Done()
			jw.Close()
			jw.AwaitClose()
			w.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		}(taskType, jw)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		w.logger.Warn("workers did not stop in time", map[string]interface{}{
			"timeoutMs": timeout.Milliseconds(),
		})
	}
}
