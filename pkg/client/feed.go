package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/pkg/logger"
)

const (
	ackTimeout     = 5 * time.Second
	reconnectDelay = 2 * time.Second
)

type feedMessage struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Feed is the server's change feed as a realtime.Feed. Each subscription
// holds its own websocket and redials after a drop; events missed in
// between are recovered by the viewer's polling.
type Feed struct {
	client *Client
	dialer *websocket.Dialer
}

func (c *Client) Feed() *Feed {
	return &Feed{client: c, dialer: websocket.DefaultDialer}
}

func (f *Feed) url(filter realtime.Filter) string {
	q := url.Values{}
	if filter.Table != "" {
		q.Set("table", string(filter.Table))
	}
	if filter.SessionID != "" {
		q.Set("session_id", filter.SessionID)
	}
	for _, e := range filter.Events {
		q.Add("event", string(e))
	}
	if f.client.apiKey != "" {
		q.Set("apikey", f.client.apiKey)
	}
	u := *f.client.base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = f.client.base.Path + "/realtime"
	u.RawQuery = q.Encode()
	return u.String()
}

type feedSubscription struct {
	feed     *Feed
	filter   realtime.Filter
	consumer realtime.Consumer

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	ws      *websocket.Conn
	writeMu sync.Mutex
}

// Subscribe connects before returning, so changes committed afterwards are
// delivered. When the server is unreachable it keeps retrying in the
// background.
func (f *Feed) Subscribe(filter realtime.Filter, consumer realtime.Consumer) realtime.Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	s := &feedSubscription{
		feed:     f,
		filter:   filter,
		consumer: consumer,
		ctx:      ctx,
		cancel:   cancel,
	}
	ws, err := s.connect()
	if err != nil {
		logger.Warn("realtime: subscribe:", err)
	}
	go s.run(ws)
	return s
}

// connect dials and waits for the server to confirm the subscription
func (s *feedSubscription) connect() (*websocket.Conn, error) {
	header := http.Header{}
	s.feed.client.authorize(header)
	dialCtx, cancel := context.WithTimeout(s.ctx, ackTimeout)
	defer cancel()
	ws, _, err := s.feed.dialer.DialContext(dialCtx, s.feed.url(s.filter), header)
	if err != nil {
		return nil, err
	}

	ws.SetReadDeadline(time.Now().Add(ackTimeout))
	var msg feedMessage
	if err := ws.ReadJSON(&msg); err != nil {
		ws.Close()
		return nil, fmt.Errorf("waiting for subscription: %w", err)
	}
	if msg.Command != "subscribed" {
		ws.Close()
		return nil, fmt.Errorf("unexpected %q before subscription", msg.Command)
	}
	ws.SetReadDeadline(time.Time{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		ws.Close()
		return nil, s.ctx.Err()
	}
	s.ws = ws
	return ws, nil
}

func (s *feedSubscription) run(ws *websocket.Conn) {
	for {
		if ws != nil {
			err := s.read(ws)
			if s.ctx.Err() != nil {
				return
			}
			logger.Warn("realtime: connection lost:", err)
		}

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
		var err error
		if ws, err = s.connect(); err != nil && s.ctx.Err() == nil {
			logger.Debug("realtime: reconnect:", err)
		}
	}
}

func (s *feedSubscription) read(ws *websocket.Conn) error {
	defer ws.Close()
	for {
		var msg feedMessage
		if err := ws.ReadJSON(&msg); err != nil {
			return err
		}
		switch msg.Command {
		case "event":
			var ev realtime.Event
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				logger.Warn("realtime: bad event:", err)
				continue
			}
			s.consumer.Consume(ev)
		case "ping":
			if err := s.write(ws, feedMessage{Command: "pong"}); err != nil {
				return err
			}
		case "error":
			logger.Warn("realtime: server error:", string(msg.Data))
		}
	}
}

func (s *feedSubscription) write(ws *websocket.Conn, msg feedMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	ws.SetWriteDeadline(time.Now().Add(ackTimeout))
	return ws.WriteJSON(msg)
}

// Close ends the subscription. It does not wait for a consumer call in
// progress, which may be blocked on the caller.
func (s *feedSubscription) Close() {
	s.cancel()
	s.mu.Lock()
	ws := s.ws
	s.mu.Unlock()
	if ws != nil {
		s.writeMu.Lock()
		err := ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			logger.Debug("realtime: close:", err)
		}
		ws.Close()
	}
}
