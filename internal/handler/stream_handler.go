package handler

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/service"
)

// DefaultPingInterval keeps idle streams open through proxies
const DefaultPingInterval = 30 * time.Second

const streamBuffer = 64

// StreamObserver counts open change streams
type StreamObserver interface {
	StreamOpened()
	StreamClosed()
}

// Subscriber is the part of the broker a stream needs
type Subscriber interface {
	Subscribe(table string, fn func(notify.Change)) (unsubscribe func())
}

// StreamHandler pushes the changes of one event to the browser as
// server-sent events
type StreamHandler struct {
	events   *service.EventService
	broker   Subscriber
	observer StreamObserver
	logger   *slog.Logger
	ping     time.Duration
}

// NewStreamHandler creates a new stream handler. obs may be nil.
func NewStreamHandler(events *service.EventService, broker Subscriber, obs StreamObserver, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{
		events:   events,
		broker:   broker,
		observer: obs,
		logger:   logger.With(slog.String("component", "stream")),
		ping:     DefaultPingInterval,
	}
}

// Stream handles GET /api/v1/events/:id/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	eventID := c.Param("id")
	if _, err := h.events.Get(c.Request.Context(), eventID); err != nil {
		respondError(c, err)
		return
	}

	changes := make(chan notify.Change, streamBuffer)
	unsubscribe := h.broker.Subscribe(notify.AllTables, func(ch notify.Change) {
		if ch.EventID != eventID {
			return
		}
		select {
		case changes <- ch:
		default:
			h.logger.Warn("stream buffer full, dropping change",
				slog.String("event_id", eventID), slog.String("table", ch.Table))
		}
	})
	defer unsubscribe()

	if h.observer != nil {
		h.observer.StreamOpened()
		defer h.observer.StreamClosed()
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.ping)
	defer ticker.Stop()

	// the comment flushes headers so the client sees the stream open
	_, _ = io.WriteString(c.Writer, ": connected\n\n")
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ch := <-changes:
			c.SSEvent("change", ch)
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		}
	})
}
