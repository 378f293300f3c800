package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/MonkyMars/gecho"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Error codes sent in websocketErrorMessage
const (
	ErrCodeHeartbeatMissed uint = 1
	ErrCodeUnknownCommand  uint = 2
	ErrCodeInvalidMessage  uint = 3
)

type websocketMessage struct {
	Command string `json:"command"`
	Data    any    `json:"data,omitempty"`
}

type websocketErrorMessage struct {
	Command   string  `json:"command"`
	ErrorCode uint    `json:"error_code"`
	Info      *string `json:"info,omitempty"`
}

func newErrorMessage(code uint, info string) websocketErrorMessage {
	return websocketErrorMessage{Command: "error", ErrorCode: code, Info: &info}
}

// RealtimeHandler streams change feed events to websocket clients
type RealtimeHandler struct {
	config *config.Config
	feed   realtime.Feed

	mu     sync.Mutex
	conns  map[uint]*websocketConnection
	nextID uint
}

func NewRealtimeHandler(cfg *config.Config, feed realtime.Feed) *RealtimeHandler {
	return &RealtimeHandler{
		config: cfg,
		feed:   feed,
		conns:  make(map[uint]*websocketConnection),
	}
}

var upgrader = websocket.Upgrader{
	// boards and student phones load from other origins
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type websocketConnection struct {
	connectionID uint
	ws           *websocket.Conn
	heartbeat    config.WebsocketHeartbeatConfig

	writeMu sync.Mutex

	mu              sync.Mutex
	latestMessage   time.Time
	latestHeartbeat time.Time
	pingsSent       uint
	pongsReceived   uint
	heartbeatCancel context.CancelFunc

	closeOnce sync.Once
}

// parseFilter reads table, session_id and event from the query. event may be
// repeated or comma separated.
func parseFilter(r *http.Request) (realtime.Filter, error) {
	query := r.URL.Query()
	var filter realtime.Filter
	if t := query.Get("table"); t != "" {
		table, err := realtime.ParseTable(t)
		if err != nil {
			return filter, err
		}
		filter.Table = table
	}
	filter.SessionID = query.Get("session_id")
	for _, v := range query["event"] {
		for _, e := range strings.Split(v, ",") {
			typ, err := realtime.ParseEventType(strings.ToUpper(strings.TrimSpace(e)))
			if err != nil {
				return filter, err
			}
			filter.Events = append(filter.Events, typ)
		}
	}
	return filter, nil
}

// InitialiseWebsocket
//
// @Summary		Change feed
// @Description	Upgrades to a websocket that receives {"command":"event","data":Event} frames for matching rows. A {"command":"subscribed"} frame confirms the subscription. Answer {"command":"ping"} with {"command":"pong"}.
// @Tags			realtime
// @Param			table		query		string	false	"Table"	Enums(sessions, groups, submissions)
// @Param			session_id	query		string	false	"Only events of this session"
// @Param			event		query		string	false	"Event types"	Enums(INSERT, UPDATE)
// @Success		101
// @Failure		400	{object}	apiResponses.BadRequestError
// @Router			/realtime [get]
func (h *RealtimeHandler) InitialiseWebsocket(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		gecho.BadRequest(w).WithMessage(err.Error()).Send()
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Err("upgrade:", err)
		return
	}
	conn := h.register(ws)
	defer h.unregister(conn)

	sub := h.feed.Subscribe(filter, realtime.ConsumerFunc(func(ev realtime.Event) {
		if err := conn.send(websocketMessage{Command: "event", Data: ev}); err != nil {
			logger.Warn(fmt.Sprintf("Dropping connection %d: %s", conn.connectionID, err))
			conn.close()
		}
	}))
	defer sub.Close()

	if err := conn.send(websocketMessage{Command: "subscribed", Data: filter}); err != nil {
		return
	}
	conn.startHeartbeatMonitor()
	conn.readLoop()
}

func (h *RealtimeHandler) register(ws *websocket.Conn) *websocketConnection {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	now := time.Now()
	conn := &websocketConnection{
		connectionID:    h.nextID,
		ws:              ws,
		heartbeat:       h.config.Heartbeat,
		latestMessage:   now,
		latestHeartbeat: now,
	}
	h.conns[conn.connectionID] = conn
	logger.Debug(fmt.Sprintf("Websocket %d connected from %s", conn.connectionID, ws.RemoteAddr()))
	return conn
}

func (h *RealtimeHandler) unregister(conn *websocketConnection) {
	conn.close()
	h.mu.Lock()
	delete(h.conns, conn.connectionID)
	h.mu.Unlock()
	logger.Debug(fmt.Sprintf("Websocket %d disconnected", conn.connectionID))
}

// Connections returns the number of open websockets
func (h *RealtimeHandler) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll closes every open websocket, used on shutdown
func (h *RealtimeHandler) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocketConnection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
}

func (conn *websocketConnection) send(v any) error {
	conn.writeMu.Lock()
	defer conn.writeMu.Unlock()
	conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.ws.WriteJSON(v)
}

func (conn *websocketConnection) close() {
	conn.closeOnce.Do(func() {
		conn.stopHeartbeatMonitor()
		conn.writeMu.Lock()
		conn.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		conn.writeMu.Unlock()
		conn.ws.Close()
	})
}

func (conn *websocketConnection) readLoop() {
	conn.ws.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn(fmt.Sprintf("read %d: %s", conn.connectionID, err))
			}
			return
		}
		conn.mu.Lock()
		conn.latestMessage = time.Now()
		conn.mu.Unlock()

		var msg websocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			conn.send(newErrorMessage(ErrCodeInvalidMessage, err.Error()))
			continue
		}
		switch msg.Command {
		case "pong":
			conn.mu.Lock()
			conn.pongsReceived++
			conn.mu.Unlock()
		case "ping":
			conn.send(websocketMessage{Command: "pong"})
		default:
			conn.send(newErrorMessage(ErrCodeUnknownCommand, fmt.Sprintf("unknown command %q", msg.Command)))
		}
	}
}

func (conn *websocketConnection) startHeartbeatMonitor() {
	ctx, cancel := context.WithCancel(context.Background())
	conn.mu.Lock()
	conn.heartbeatCancel = cancel
	conn.mu.Unlock()

	go func() {
		interval := conn.heartbeat.CheckInterval
		if interval <= 0 {
			interval = time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				conn.mu.Lock()
				age := time.Since(conn.latestMessage)
				heartbeatAge := time.Since(conn.latestHeartbeat)
				pings, pongs := conn.pingsSent, conn.pongsReceived
				conn.mu.Unlock()

				if age >= conn.heartbeat.KillDelay {
					conn.send(newErrorMessage(ErrCodeHeartbeatMissed, "Heartbeat missed"))
					logger.Info(fmt.Sprintf(
						"Disconnected %d, heartbeat missed. %d/%d pings answered",
						conn.connectionID, pongs, pings,
					))
					go conn.close()
					return
				} else if age >= conn.heartbeat.Delay && heartbeatAge >= conn.heartbeat.Interval {
					if err := conn.send(websocketMessage{Command: "ping"}); err != nil {
						continue
					}
					conn.mu.Lock()
					conn.pingsSent++
					conn.latestHeartbeat = time.Now()
					conn.mu.Unlock()
					logger.Debug(fmt.Sprintf("Sent heartbeat to %d", conn.connectionID))
				}
			}
		}
	}()
}

func (conn *websocketConnection) stopHeartbeatMonitor() {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.heartbeatCancel != nil {
		conn.heartbeatCancel()
		conn.heartbeatCancel = nil
	}
}
