package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBroker_DeliversByTable(t *testing.T) {
	b := NewBroker(quietLogger())

	var gps, all []Change
	b.Subscribe("gps_tracks", func(c Change) { gps = append(gps, c) })
	b.Subscribe(AllTables, func(c Change) { all = append(all, c) })

	b.Publish(Change{Table: "gps_tracks", Op: OpInsert, EventID: "e1"})
	b.Publish(Change{Table: "polygons", Op: OpDelete, EventID: "e1"})

	if len(gps) != 1 || gps[0].Table != "gps_tracks" {
		t.Errorf("gps subscriber got %+v", gps)
	}
	if len(all) != 2 {
		t.Errorf("wildcard subscriber got %d changes, want 2", len(all))
	}
	if gps[0].At.IsZero() {
		t.Error("Publish should stamp the change time")
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker(quietLogger())
	n := 0
	unsub := b.Subscribe("users", func(Change) { n++ })

	b.Publish(Change{Table: "users"})
	unsub()
	unsub()
	b.Publish(Change{Table: "users"})

	if n != 1 {
		t.Errorf("handler ran %d times, want 1", n)
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d", b.Subscribers())
	}
}

func TestBroker_PanickingSubscriberIsIsolated(t *testing.T) {
	b := NewBroker(quietLogger())
	delivered := false
	b.Subscribe("users", func(Change) { panic("bad subscriber") })
	b.Subscribe("users", func(Change) { delivered = true })

	b.Publish(Change{Table: "users"})

	if !delivered {
		t.Error("second subscriber did not run")
	}
}

func TestBroker_SubscribeFromHandler(t *testing.T) {
	b := NewBroker(quietLogger())
	b.Subscribe("a", func(Change) {
		b.Subscribe("b", func(Change) {})
	})

	done := make(chan struct{})
	go func() {
		b.Publish(Change{Table: "a"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish deadlocked when a handler subscribed")
	}
}

func TestBroker_ConcurrentPublish(t *testing.T) {
	b := NewBroker(quietLogger())
	var mu sync.Mutex
	n := 0
	b.Subscribe(AllTables, func(Change) {
		mu.Lock()
		n++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(Change{Table: "gps_tracks"})
		}()
	}
	wg.Wait()

	if n != 50 {
		t.Errorf("got %d deliveries, want 50", n)
	}
}

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaForwarder_ForwardsChanges(t *testing.T) {
	b := NewBroker(quietLogger())
	w := &fakeWriter{}
	f := newKafkaForwarder(w, quietLogger())
	f.Attach(b)

	at := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	b.Publish(Change{Table: "gps_tracks", Op: OpInsert, EventID: "e1", RecordID: "r1", At: at})
	b.Publish(Change{Table: "users", Op: OpUpdate, RecordID: "u1", At: at})

	if len(w.msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "e1" || string(w.msgs[1].Key) != "users" {
		t.Errorf("keys = %q, %q", w.msgs[0].Key, w.msgs[1].Key)
	}

	var got Change
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Table != "gps_tracks" || got.RecordID != "r1" || !got.At.Equal(at) {
		t.Errorf("decoded %+v", got)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if !w.closed {
		t.Error("writer not closed")
	}
	b.Publish(Change{Table: "users"})
	if len(w.msgs) != 2 {
		t.Error("forwarder still attached after Close")
	}
}

func TestKafkaForwarder_WriteErrorIsLogged(t *testing.T) {
	b := NewBroker(quietLogger())
	f := newKafkaForwarder(&fakeWriter{err: errors.New("broker down")}, quietLogger())
	f.Attach(b)

	// must not panic or block
	b.Publish(Change{Table: "users"})
}

func TestNewKafkaForwarder_Validates(t *testing.T) {
	if _, err := NewKafkaForwarder(nil, "changes", nil); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := NewKafkaForwarder([]string{"localhost:9092"}, " ", nil); err == nil {
		t.Error("expected error without topic")
	}
}
