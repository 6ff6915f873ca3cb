package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
)

type recordingStore struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingStore) Insert(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestAuditDispatcher_DeliversEvents(t *testing.T) {
	store := &recordingStore{}
	d := NewAuditDispatcher(2, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 1; i <= 10; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditSignIn, SubjectID: i, Success: true})
	}

	deadline := time.After(2 * time.Second)
	for store.count() < 10 {
		select {
		case <-deadline:
			t.Fatalf("delivered %d of 10 events before timeout", store.count())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAuditDispatcher_SameSubjectSameShard(t *testing.T) {
	d := NewAuditDispatcher(4, &recordingStore{}, zerolog.Nop())

	event := domain.AuditEvent{Action: domain.AuditSignIn, SubjectID: 7}
	first := d.shardIndex(event)
	for i := 0; i < 100; i++ {
		if got := d.shardIndex(event); got != first {
			t.Fatalf("shard index not stable: %d then %d", first, got)
		}
	}

	// Without a subject id the email drives sharding.
	byEmail := domain.AuditEvent{Action: domain.AuditSignIn, Email: "mimi@gmail.com"}
	first = d.shardIndex(byEmail)
	if got := d.shardIndex(byEmail); got != first {
		t.Fatalf("email sharding not stable: %d then %d", first, got)
	}
}

func TestAuditDispatcher_DefaultsWorkerCount(t *testing.T) {
	d := NewAuditDispatcher(0, &recordingStore{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
