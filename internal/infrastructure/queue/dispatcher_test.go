package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
	err    error
}

func (s *recordingService) Process(_ context.Context, e domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if len(s.events) == s.want {
		close(s.done)
	}
	return s.err
}

func (s *recordingService) byItem(itemID int64) []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditAction
	for _, e := range s.events {
		if e.ItemID == itemID {
			out = append(out, e.Action)
		}
	}
	return out
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for events")
	}
}

func TestDispatcher_PreservesPerItemOrder(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 9}
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	actions := []domain.AuditAction{domain.AuditItemCreated, domain.AuditItemUpdated, domain.AuditItemDeleted}
	for _, action := range actions {
		for item := int64(1); item <= 3; item++ {
			d.Enqueue(domain.AuditEvent{ID: string(action), ItemID: item, Action: action})
		}
	}

	waitFor(t, svc.done)
	cancel()
	d.Wait()

	for item := int64(1); item <= 3; item++ {
		got := svc.byItem(item)
		if len(got) != len(actions) {
			t.Fatalf("item %d: expected %d events, got %d", item, len(actions), len(got))
		}
		for i := range actions {
			if got[i] != actions[i] {
				t.Fatalf("item %d: event %d = %s, want %s", item, i, got[i], actions[i])
			}
		}
	}
}

func TestDispatcher_ProcessErrorDoesNotStopWorker(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 2, err: errors.New("mongo down")}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.AuditEvent{ItemID: 1})
	d.Enqueue(domain.AuditEvent{ItemID: 1})
	waitFor(t, svc.done)
}

func TestDispatcher_EnqueueDoesNotBlockWhenFull(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: -1}
	d := NewDispatcher(1, svc, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.AuditEvent{ItemID: 7})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", channelBuffer, got)
	}
}

func TestDispatcher_ShardIndex(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex(5) != d.shardIndex(5) {
		t.Fatal("shard index must be deterministic")
	}
	if idx := d.shardIndex(-3); idx < 0 || idx >= len(d.workers) {
		t.Fatalf("shard index out of range: %d", idx)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 5}
	d := NewDispatcher(1, svc, zerolog.Nop())

	// Fill the queue before any worker runs, then stop immediately.
	for i := 0; i < 5; i++ {
		d.Enqueue(domain.AuditEvent{ItemID: 1})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(svc.byItem(1)); got != 5 {
		t.Fatalf("expected 5 drained events, got %d", got)
	}
}
