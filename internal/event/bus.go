// Package event carries notifications between the flows of one visitor.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
)

// UserRegistered is published once per successful registration.
type UserRegistered struct {
	User apiclient.User
	At   time.Time
}

// Handler reacts to a published UserRegistered event.
type Handler func(ctx context.Context, ev UserRegistered)

// Bus is a synchronous observer list.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
	logger   *logrus.Entry
}

// NewBus creates an empty bus.
func NewBus(logger *logrus.Entry) *Bus {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{
		handlers: make(map[int]Handler),
		logger:   logger.WithField("component", "event"),
	}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every handler in subscription order. Handler panics are
// recovered and logged.
func (b *Bus) Publish(ctx context.Context, ev UserRegistered) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.call(ctx, h, ev)
	}
}

func (b *Bus) call(ctx context.Context, h Handler, ev UserRegistered) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"event":   "user_registered",
				"user_id": ev.User.ID,
				"panic":   r,
			}).Error("event handler panicked")
		}
	}()

	h(ctx, ev)
}
