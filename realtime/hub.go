// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/livepoll/livepoll/models"
)

// Hub tracks which live connections are watching which poll and fans poll
// updates out to them. It is shared mutable state touched by every
// connection's subscribe/vote/disconnect events, so all access goes through
// the mutex; broadcast iterates a copy of the membership set and can never
// observe a torn one.
type Hub struct {
	mu sync.RWMutex

	// rooms maps poll id -> subscribed clients.
	rooms map[string]map[*Client]struct{}
	// joined maps client -> poll ids it subscribed to, for O(rooms-of-client)
	// cleanup on disconnect.
	joined map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		joined: make(map[*Client]map[string]struct{}),
	}
}

// Subscribe adds c to the interest set for pollID. Idempotent. The poll is
// not checked for existence: subscribing to a nonexistent poll is harmless,
// it simply never receives a broadcast.
func (h *Hub) Subscribe(c *Client, pollID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[pollID] = room
	}
	room[c] = struct{}{}

	polls, ok := h.joined[c]
	if !ok {
		polls = make(map[string]struct{})
		h.joined[c] = polls
	}
	polls[pollID] = struct{}{}
}

// UnsubscribeAll removes c from every interest set. Called on disconnect and
// safe to call multiple times.
func (h *Hub) UnsubscribeAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pollID := range h.joined[c] {
		room := h.rooms[pollID]
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, pollID)
		}
	}
	delete(h.joined, c)
}

// Subscribers returns the clients currently interested in pollID. The slice
// is a copy; callers may iterate it without holding the lock.
func (h *Hub) Subscribers(pollID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[pollID]
	subs := make([]*Client, 0, len(room))
	for c := range room {
		subs = append(subs, c)
	}
	return subs
}

// Publish sends the snapshot to every subscriber of pollID present at call
// time. Best-effort and fire-and-forget: the payload is marshaled once and
// handed to each client's send queue without blocking, so one slow or
// closed subscriber never delays the rest or the voter.
func (h *Hub) Publish(pollID string, snapshot models.Poll) {
	payload, err := encodeEvent(models.EventPollUpdated, snapshot)
	if err != nil {
		slog.Error("failed to encode poll update", "poll_id", pollID, "error", err)
		return
	}

	for _, c := range h.Subscribers(pollID) {
		if !c.trySend(payload) {
			slog.Warn("dropping poll update for slow subscriber",
				"connection_id", c.id, "poll_id", pollID)
		}
	}
}

// encodeEvent wraps data in the websocket envelope.
func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.Envelope{Event: event, Data: raw})
}
