package eventbus

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockEvent struct {
	sku string
}

type otherEvent struct{}

func newBufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublisher_NoMatchingSubscriber(t *testing.T) {
	log, buf := newBufferedLogger(logrus.DebugLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *stockEvent) {
		t.Error("should not be called")
	})
	publisher.Publish(&otherEvent{})

	assert.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublisher_Subscribe(t *testing.T) {
	log, _ := newBufferedLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)
	var got string
	publisher.Subscribe(func(e *stockEvent) {
		got = e.sku
	})
	publisher.Publish(&stockEvent{sku: "SKU-1"})
	assert.Equal(t, "SKU-1", got)
}

func TestPublisher_InterfaceHandlers(t *testing.T) {
	publisher := NewEventPublisher(nil)
	calls := 0
	publisher.Subscribe(func(ctx context.Context, e any) {
		calls++
	})
	publisher.Publish(context.Background(), &stockEvent{})
	publisher.Publish(context.Background(), &otherEvent{})
	assert.Equal(t, 2, calls)
}

func TestMatchSignature(t *testing.T) {
	assert.True(t, MatchSignature(func(e *stockEvent) {}, []any{&stockEvent{}}))
	assert.False(t, MatchSignature(func(e *stockEvent) {}, []any{&otherEvent{}}))
	assert.False(t, MatchSignature(func(e *stockEvent) {}, []any{}))
	assert.False(t, MatchSignature(func(e *stockEvent) {}, []any{&stockEvent{}, &stockEvent{}}))
	assert.True(t, MatchSignature(func(e *stockEvent) {}, []any{nil}))
	assert.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	assert.False(t, MatchSignature("not a func", []any{}))
}

func TestPublisher_PanicRecovery(t *testing.T) {
	log, buf := newBufferedLogger(logrus.ErrorLevel)
	publisher := NewEventPublisher(log)

	secondCalled := false
	publisher.Subscribe(func(e *stockEvent) {
		panic("intentional panic for testing")
	})
	publisher.Subscribe(func(e *stockEvent) {
		secondCalled = true
	})

	require.NotPanics(t, func() { publisher.Publish(&stockEvent{sku: "X"}) })
	assert.True(t, secondCalled, "a panicking handler must not stop the others")
	output := buf.String()
	assert.True(t, strings.Contains(output, "panicked"))
	assert.True(t, strings.Contains(output, "intentional panic for testing"))
}

func TestPublisher_PublishE(t *testing.T) {
	t.Run("no subscribers", func(t *testing.T) {
		err := NewEventPublisher(nil).PublishE(&stockEvent{})
		require.ErrorIs(t, err, ErrNoSubscribers)
	})

	t.Run("joins handler errors and panics", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		boom := errors.New("boom")
		publisher.Subscribe(func(e *stockEvent) error { return boom })
		publisher.Subscribe(func(e *stockEvent) error { return nil })
		publisher.Subscribe(func(e *stockEvent) { panic("bad") })

		err := publisher.PublishE(&stockEvent{})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "panicked")
	})

	t.Run("rejects bad return signature", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		publisher.Subscribe(func(e *stockEvent) int { return 1 })
		err := publisher.PublishE(&stockEvent{})
		require.ErrorIs(t, err, ErrInvalidHandlerReturn)
	})
}

func TestPublisher_UnsubscribeAndClear(t *testing.T) {
	publisher := NewEventPublisher(nil)
	handler := func(e *stockEvent) {}
	publisher.Subscribe(handler)
	publisher.Subscribe(func(e *otherEvent) {})
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	assert.Equal(t, 1, publisher.SubscribersCount())

	publisher.Clear()
	assert.Equal(t, 0, publisher.SubscribersCount())
}

func TestPublisher_ConcurrentPublish(t *testing.T) {
	publisher := NewEventPublisher(nil)
	var mu sync.Mutex
	count := 0
	publisher.Subscribe(func(e *stockEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.Publish(&stockEvent{})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, count)
}

type approvedEvent struct {
	Metadata
}

func (e *approvedEvent) EventType() string { return "rrhh.solicitud_resuelta" }

func TestPublisher_InterfaceSubscriberReceivesDomainEvents(t *testing.T) {
	publisher := NewEventPublisher(nil)
	var got []string
	publisher.Subscribe(func(e Event) {
		got = append(got, e.EventType()+":"+e.EventMeta().EntityID)
	})

	publisher.Publish(&approvedEvent{Metadata: NewMetadata("7", "rrhh", "approve", "15")})
	publisher.Publish(&stockEvent{sku: "A-1"})

	assert.Equal(t, []string{"rrhh.solicitud_resuelta:15"}, got)
}
