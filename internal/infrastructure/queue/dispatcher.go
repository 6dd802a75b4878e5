package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/api/metrics"
	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes task activity to a fixed set of workers using consistent
// hashing on the task id, so entries for one task are persisted in order.
type Dispatcher struct {
	workers []chan domain.TaskActivity
	service ports.ActivityService
	log     zerolog.Logger
	done    chan struct{}
}

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, service, log)
}

func newDispatcher(numWorkers, buffer int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TaskActivity, numWorkers),
		service: service,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TaskActivity, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// when ctx is cancelled; Done is closed once every worker has returned.
func (d *Dispatcher) Start(ctx context.Context) {
	finished := make(chan struct{}, len(d.workers))
	for i, ch := range d.workers {
		go func(id int, ch chan domain.TaskActivity) {
			d.runWorker(ctx, id, ch)
			finished <- struct{}{}
		}(i, ch)
	}
	go func() {
		for range d.workers {
			<-finished
		}
		close(d.done)
	}()
}

// Done is closed after all workers have stopped.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Record hands an entry to the worker responsible for its task. It never
// blocks: when the worker channel is full the entry is dropped.
func (d *Dispatcher) Record(a domain.TaskActivity) {
	idx := d.shardIndex(a.TaskID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("task_id", a.TaskID).
			Str("action", string(a.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, entry dropped")
	}
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan domain.TaskActivity) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case a := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, a)
		}
	}
}

// drain persists whatever is still buffered using a short detached context.
func (d *Dispatcher) drain(id int, ch chan domain.TaskActivity) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case a := <-ch:
			d.process(ctx, id, a)
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, a domain.TaskActivity) {
	start := time.Now()
	err := d.service.Process(ctx, a)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("task_id", a.TaskID).
			Str("action", string(a.Action)).
			Int("worker_id", id).
			Msg("activity processing failed")
	}
	metrics.ActivityProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
