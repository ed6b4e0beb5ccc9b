package grpc

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func syncEvent(changed int) *models.CatalogEvent {
	return &models.CatalogEvent{ID: "sync", Kind: models.CatalogEventChanged, Source: "rest", Changed: changed}
}

func closed(ch <-chan *models.CatalogEvent) bool {
	select {
	case _, ok := <-ch:
		return !ok
	default:
		return false
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	if n := b.SubscriberCount(); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}

	b.Unsubscribe(id)
	b.Unsubscribe(id) // second call is a no-op

	if n := b.SubscriberCount(); n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
	if !closed(ch) {
		t.Error("expected the subscriber channel to be closed")
	}
}

func TestBroadcaster_FanOutKeepsOrder(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, first := b.Subscribe()
	_, second := b.Subscribe()

	for i := 1; i <= 3; i++ {
		b.Broadcast(syncEvent(i))
	}

	for name, ch := range map[string]chan *models.CatalogEvent{"first": first, "second": second} {
		for want := 1; want <= 3; want++ {
			select {
			case e := <-ch:
				if e.Changed != want {
					t.Errorf("%s subscriber: expected event %d, got %d", name, want, e.Changed)
				}
			case <-time.After(100 * time.Millisecond):
				t.Fatalf("%s subscriber: timed out waiting for event %d", name, want)
			}
		}
	}
}

func TestBroadcaster_ConcurrentUse(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, ch := b.Subscribe()
			done := make(chan struct{})
			go func() {
				defer close(done)
				for range ch {
				}
			}()
			time.Sleep(2 * time.Millisecond)
			b.Unsubscribe(id)
			<-done
		}()
		go func() {
			defer wg.Done()
			b.Broadcast(syncEvent(i))
		}()
	}
	wg.Wait()

	if n := b.SubscriberCount(); n != 0 {
		t.Errorf("expected no subscribers left, got %d", n)
	}
}

func TestBroadcaster_CloseEndsAllStreams(t *testing.T) {
	b := NewBroadcaster()

	chans := make([]chan *models.CatalogEvent, 3)
	for i := range chans {
		_, chans[i] = b.Subscribe()
	}

	b.Close()

	if n := b.SubscriberCount(); n != 0 {
		t.Errorf("expected no subscribers after close, got %d", n)
	}
	for i, ch := range chans {
		if !closed(ch) {
			t.Errorf("stream %d still open", i)
		}
	}
}

func TestBroadcaster_DropsForFullSubscriber(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	const extra = 3
	for i := range subscriberBuffer + extra {
		b.Broadcast(syncEvent(i))
	}

	if got := len(ch); got != subscriberBuffer {
		t.Errorf("expected %d buffered events, got %d", subscriberBuffer, got)
	}
	if got := b.Dropped(); got != extra {
		t.Errorf("expected %d dropped events, got %d", extra, got)
	}
	if e := <-ch; e.Changed != 0 {
		t.Errorf("expected the oldest event to be kept, got %d", e.Changed)
	}
}
