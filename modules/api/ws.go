package api

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	domain "github.com/vinayytyagi/lineup/domain/task"
	"github.com/vinayytyagi/lineup/modules/timeline"
)

// Rate limiting constants for timeline events.
const (
	eventsPerSecond = 20
	burstSize       = 40
)

// WebSocketMessage is the envelope for both directions of the timeline socket.
type WebSocketMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client event payloads.

type jumpPayload struct {
	DayKey string `json:"dayKey"`
}

type taskRefPayload struct {
	TaskID string `json:"taskId"`
}

type dropPayload struct {
	DayKey string `json:"dayKey"`
	Index  int    `json:"index"`
}

type searchPayload struct {
	Query string `json:"query"`
}

// Server event payloads.

type windowPayload struct {
	Days []string `json:"days"`
}

type dayPayload struct {
	DayKey string        `json:"dayKey"`
	Tasks  []domain.Task `json:"tasks"`
}

type bannerPayload struct {
	Message string `json:"message"`
}

type scrollPayload struct {
	DayKey string `json:"dayKey"`
	TaskID string `json:"taskId,omitempty"`
	Center bool   `json:"center,omitempty"`
}

type searchResultPayload struct {
	Matches []timeline.Match `json:"matches"`
	Active  int              `json:"active"`
}

type modePayload struct {
	Mode   string `json:"mode"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

// rateLimiter implements a simple token bucket rate limiter.
type rateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate int // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func newRateLimiter(maxTokens, refillRate int) *rateLimiter {
	return &rateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (r *rateLimiter) allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastRefill)
	tokensToAdd := int(elapsed.Seconds()) * r.refillRate
	if tokensToAdd > 0 {
		r.tokens += tokensToAdd
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

// wsSink pushes engine events to one websocket connection. Engine callbacks
// arrive from several goroutines; the write mutex serializes the socket.
type wsSink struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWSSink(conn *websocket.Conn) *wsSink {
	return &wsSink{conn: conn}
}

func (s *wsSink) WindowChanged(days []string) {
	s.send("window", windowPayload{Days: days})
}

func (s *wsSink) DayChanged(dayKey string, tasks []domain.Task) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.send("day", dayPayload{DayKey: dayKey, Tasks: tasks})
}

func (s *wsSink) Banner(message string) {
	s.send("banner", bannerPayload{Message: message})
}

func (s *wsSink) ScrollToDay(dayKey string, center bool) {
	s.send("scroll", scrollPayload{DayKey: dayKey, Center: center})
}

func (s *wsSink) ScrollToTask(dayKey, taskID string) {
	s.send("scroll", scrollPayload{DayKey: dayKey, TaskID: taskID, Center: true})
}

func (s *wsSink) SearchChanged(matches []timeline.Match, active int) {
	if matches == nil {
		matches = []timeline.Match{}
	}
	s.send("search", searchResultPayload{Matches: matches, Active: active})
}

func (s *wsSink) send(msgType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[api] Failed to marshal %s payload: %v", msgType, err)
		return
	}

	msgBytes, err := json.Marshal(WebSocketMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("[api] Failed to marshal websocket message: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
		log.Printf("[api] Failed to send websocket message: %v", err)
	}
}

func (s *wsSink) sendError(errMsg string) {
	msgBytes, err := json.Marshal(WebSocketMessage{Type: "error", Error: errMsg})
	if err != nil {
		log.Printf("[api] Failed to marshal error message: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
		log.Printf("[api] Failed to send error message: %v", err)
	}
}

// HandleTimeline drives one timeline session over a websocket connection.
// The session mode was resolved from cookies before the upgrade.
func (m *APIModule) HandleTimeline(c *websocket.Conn) {
	mode, ok := c.Locals(timelineModeKey).(timeline.Mode)
	if !ok {
		mode = timeline.GuestMode()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := newWSSink(c)
	ctrl := m.timeline.NewSession(mode, sink)
	limiter := newRateLimiter(burstSize, eventsPerSecond)

	defer func() {
		ctrl.Wait()
		c.Close()
	}()

	log.Printf("[api] Timeline session connected: %s", mode)
	sink.send("mode", modePayload{
		Mode:   modeName(mode),
		UserID: mode.UserID(),
		Email:  mode.Email(),
	})

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[api] Timeline websocket error: %v", err)
			}
			break
		}

		if !limiter.allow() {
			sink.sendError("Rate limit exceeded, please slow down")
			continue
		}

		var msg WebSocketMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			sink.sendError("Invalid message format")
			continue
		}

		m.handleTimelineEvent(ctx, ctrl, sink, msg)
	}

	log.Printf("[api] Timeline session disconnected: %s", mode)
}

func modeName(m timeline.Mode) string {
	switch m.Kind() {
	case timeline.KindUser:
		return "user"
	case timeline.KindAdmin:
		return "admin"
	default:
		return "guest"
	}
}

// handleTimelineEvent dispatches one client event to the session controller.
func (m *APIModule) handleTimelineEvent(ctx context.Context, ctrl *timeline.Controller, sink *wsSink, msg WebSocketMessage) {
	switch msg.Type {
	case "init":
		ctrl.Init(ctx)

	case "near-top":
		ctrl.GrowBackward(ctx)

	case "near-bottom":
		ctrl.GrowForward(ctx)

	case "jump":
		var req jumpPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.DayKey == "" {
			sink.sendError("Invalid jump payload")
			return
		}
		ctrl.JumpTo(ctx, req.DayKey)

	case "save":
		var req timeline.SaveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.DayKey == "" {
			sink.sendError("Invalid save payload")
			return
		}
		saved, err := ctrl.SaveTask(ctx, req)
		if err != nil {
			sink.sendError(err.Error())
			return
		}
		sink.send("saved", saved.WithDayKey())

	case "delete":
		var req taskRefPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.TaskID == "" {
			sink.sendError("Invalid delete payload")
			return
		}
		if err := ctrl.DeleteTask(ctx, req.TaskID); err != nil {
			sink.sendError(err.Error())
		}

	case "drag-start":
		var req taskRefPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.TaskID == "" {
			sink.sendError("Invalid drag payload")
			return
		}
		if err := ctrl.StartDrag(req.TaskID); err != nil {
			sink.sendError(err.Error())
		}

	case "drag-cancel":
		ctrl.CancelDrag()

	case "drop":
		var req dropPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.DayKey == "" {
			sink.sendError("Invalid drop payload")
			return
		}
		if err := ctrl.HandleDrop(ctx, req.DayKey, req.Index); err != nil {
			sink.sendError(err.Error())
		}

	case "search":
		var req searchPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			sink.sendError("Invalid search payload")
			return
		}
		ctrl.SetSearchQuery(req.Query)

	case "search-next":
		ctrl.SearchNext()

	case "search-prev":
		ctrl.SearchPrev()

	default:
		sink.sendError("Unknown message type: " + msg.Type)
	}
}
