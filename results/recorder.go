package results

import (
	"context"
	"sync"
	"time"

	"github.com/milk9111/duel/logging"
)

const (
	defaultQueueSize = 16
	recordTimeout    = 5 * time.Second
)

// Recorder hands results to a Sink on a background goroutine so the game
// loop never waits on storage.
type Recorder struct {
	sink  Sink
	queue chan Result
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewRecorder(sink Sink, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	r := &Recorder{
		sink:  sink,
		queue: make(chan Result, queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Submit queues res without blocking. It reports false when the recorder
// is closed or the queue is full.
func (r *Recorder) Submit(res Result) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.queue <- res:
		return true
	default:
		logging.Warn("result queue full, dropping", logging.Fields{"player": res.PlayerName, "seconds": res.Seconds})
		return false
	}
}

// Close drains queued results and stops the worker.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for res := range r.queue {
		if r.sink == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := r.sink.RecordResult(ctx, res)
		cancel()
		if err != nil {
			logging.Error("record result", err, logging.Fields{"player": res.PlayerName})
			continue
		}
		logging.Debug("result recorded", logging.Fields{"player": res.PlayerName, "seconds": res.Seconds})
	}
}
