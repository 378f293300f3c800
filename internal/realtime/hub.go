package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/CLDWare/methods-lab/pkg/logger"
)

// Hub is an in-process Feed. Each subscriber gets its own buffered queue and
// delivery goroutine, so a slow consumer never blocks a publisher. When a
// queue is full the event is dropped for that subscriber; views reconcile by
// re-fetching.
type Hub struct {
	buffer int

	mu          sync.RWMutex
	subscribers map[uint64]*subscriber
	nextID      uint64
	closed      bool

	dropped atomic.Uint64
}

type subscriber struct {
	hub      *Hub
	id       uint64
	filter   Filter
	consumer Consumer
	queue    chan Event
	done     chan struct{}
	once     sync.Once
}

// NewHub creates a hub that queues up to buffer events per subscriber
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		buffer:      buffer,
		subscribers: make(map[uint64]*subscriber),
	}
}

func (h *Hub) Subscribe(filter Filter, consumer Consumer) Subscription {
	sub := &subscriber{
		hub:      h,
		filter:   filter,
		consumer: consumer,
		queue:    make(chan Event, h.buffer),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.once.Do(func() { close(sub.done) })
		return sub
	}
	h.nextID++
	sub.id = h.nextID
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	go sub.deliver()
	return sub
}

func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		if !sub.filter.Match(ev) {
			continue
		}
		select {
		case sub.queue <- ev:
		case <-sub.done:
		default:
			h.dropped.Add(1)
			logger.Warn("realtime: subscriber", sub.id, "is behind, dropped", ev.Type, "on", ev.Table)
		}
	}
}

// Subscribers returns the number of open subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns how many deliveries were skipped because a queue was full
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close ends every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subscribers
	h.subscribers = make(map[uint64]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (s *subscriber) deliver() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.queue:
			select {
			case <-s.done:
				return
			default:
			}
			s.consumer.Consume(ev)
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// Close removes the subscription. No events are delivered after it returns,
// except one that was already being consumed.
func (s *subscriber) Close() {
	s.hub.mu.Lock()
	delete(s.hub.subscribers, s.id)
	s.hub.mu.Unlock()
	s.stop()
}
