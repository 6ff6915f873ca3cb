package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/api/metrics"
	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher routes audit events to a fixed set of workers using
// consistent hashing on the subject, so events for one account are recorded
// in the order they happened. Recording is fire-and-forget: a full queue
// drops the event rather than stalling a request.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	store   ports.AuditStore
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, store ports.AuditStore, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker responsible for its subject.
// Never blocks; the event is dropped (and counted) when the shard is full.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	select {
	case d.workers[d.shardIndex(event)] <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		d.log.Warn().Str("action", event.Action).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an event deterministically to a worker index. Events
// without a subject id shard by email.
func (d *AuditDispatcher) shardIndex(event domain.AuditEvent) int {
	key := event.Email
	if event.SubjectID != 0 {
		key = strconv.Itoa(event.SubjectID)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.store.Insert(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("audit event write failed")
			}
		}
	}
}
