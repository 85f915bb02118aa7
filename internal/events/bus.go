package events

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Handler processes a published event
type Handler func(event *Event) error

// SubscriptionID identifies a subscription for Unsubscribe
type SubscriptionID uint64

type subscription struct {
	id        SubscriptionID
	eventType EventType
	wildcard  bool
	handler   Handler
	active    bool
}

// Bus delivers events synchronously, in subscription order.
// Handlers may publish, subscribe or unsubscribe while being dispatched.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID SubscriptionID
	logger *zap.Logger
}

// NewBus creates a new event bus. A nil logger disables logging.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger.Named("events")}
}

// Subscribe registers handler for future events of eventType
func (b *Bus) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	return b.add(&subscription{eventType: eventType, handler: handler})
}

// SubscribeAll registers handler for every future event
func (b *Bus) SubscribeAll(handler Handler) SubscriptionID {
	return b.add(&subscription{wildcard: true, handler: handler})
}

func (b *Bus) add(sub *subscription) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub.id = b.nextID
	sub.active = true
	b.subs = append(b.subs, sub)

	b.logger.Debug("subscribed",
		zap.Uint64("subscription", uint64(sub.id)),
		zap.String("event_type", string(sub.eventType)),
		zap.Bool("wildcard", sub.wildcard))
	return sub.id
}

// Unsubscribe removes a subscription. A handler removed during a dispatch
// is not invoked for the rest of that dispatch.
func (b *Bus) Unsubscribe(id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id != id {
			continue
		}
		sub.active = false
		b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
		return true
	}
	return false
}

// HandlerCount returns the number of handlers that would receive an event of eventType
func (b *Bus) HandlerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, sub := range b.subs {
		if sub.wildcard || sub.eventType == eventType {
			count++
		}
	}
	return count
}

// Publish invokes every matching handler on the calling goroutine.
// A failing handler does not stop the rest; all failures are joined
// into the returned error.
func (b *Bus) Publish(event *Event) error {
	if event == nil {
		return nil
	}

	b.mu.RLock()
	matched := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.wildcard || sub.eventType == event.Type {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	b.logger.Debug("publishing",
		zap.String("event_type", string(event.Type)),
		zap.String("tag", event.Tag),
		zap.String("source", event.SourceID),
		zap.String("target", event.TargetID),
		zap.Int("handlers", len(matched)))

	var errs []error
	for _, sub := range matched {
		if !b.isActive(sub) {
			continue
		}
		if err := sub.handler(event); err != nil {
			b.logger.Warn("handler failed",
				zap.Uint64("subscription", uint64(sub.id)),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("subscription %d: %w", sub.id, err))
		}
	}

	return errors.Join(errs...)
}

func (b *Bus) isActive(sub *subscription) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sub.active
}

// Clear removes all subscriptions
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		sub.active = false
	}
	b.subs = nil
	b.logger.Debug("cleared all subscriptions")
}
