// Package notify fans record changes out to in-process subscribers: the SSE
// stream, cache refresh hooks and the optional Kafka forwarder.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// AllTables subscribes to changes of every table
const AllTables = "*"

// Op is the kind of write that produced a change
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change describes one committed write
type Change struct {
	Table    string    `json:"table"`
	Op       Op        `json:"op"`
	EventID  string    `json:"event_id,omitempty"`
	RecordID string    `json:"record_id,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher is what services need to announce writes
type Publisher interface {
	Publish(Change)
}

type subscription struct {
	id    uint64
	table string
	fn    func(Change)
}

// Broker delivers changes synchronously to the handlers subscribed to the
// change's table. Handlers run outside the lock, so they may subscribe or
// unsubscribe. No ordering is promised across tables.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
	logger *slog.Logger
}

// NewBroker creates an empty broker
func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{logger: logger.With(slog.String("component", "notify"))}
}

// Subscribe registers fn for changes on table, or on every table with
// AllTables. The returned function removes the subscription and is safe to
// call more than once.
func (b *Broker) Subscribe(table string, fn func(Change)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, table: table, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers c. A panicking handler is logged and does not stop the
// others.
func (b *Broker) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	b.mu.RLock()
	targets := make([]func(Change), 0, len(b.subs))
	for _, s := range b.subs {
		if s.table == AllTables || s.table == c.Table {
			targets = append(targets, s.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range targets {
		b.deliver(fn, c)
	}
}

func (b *Broker) deliver(fn func(Change), c Change) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panicked",
				slog.String("table", c.Table),
				slog.Any("panic", r),
			)
		}
	}()
	fn(c)
}

// Subscribers returns the number of live subscriptions
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
