package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx := context.Background()
	subs := []<-chan Event[string]{broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(ChangedEvent, "scripts/")

	for i, ch := range subs {
		select {
		case ev := <-ch:
			require.Equal(t, "scripts/", ev.Payload, "subscriber %d", i)
			require.Equal(t, ChangedEvent, ev.Type)
			require.False(t, ev.Timestamp.IsZero())
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timeout waiting for event", "subscriber %d", i)
		}
	}
}

func TestBroker_CancelledSubscriptionIsClosed(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 },
		time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_PublishDropsWhenFull(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	broker.Publish(CreatedEvent, 1)
	broker.Publish(CreatedEvent, 2)

	ev := <-ch
	require.Equal(t, 1, ev.Payload)
	select {
	case ev := <-ch:
		require.Failf(t, "unexpected event", "%v", ev.Payload)
	default:
	}
}

func TestBroker_SubscribeAfterClose(t *testing.T) {
	broker := NewBroker[string]()
	broker.Close()
	broker.Close()

	_, ok := <-broker.Subscribe(context.Background())
	require.False(t, ok)
	broker.Publish(RemovedEvent, "ignored")
}
