// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livepoll/livepoll/cliparse"
	"github.com/livepoll/livepoll/fingerprint"
	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
)

// Server owns the websocket endpoint: it upgrades connections, reads event
// frames, and dispatches them to per-event handlers. Vote handling is the
// coordinator described in the package docs.
type Server struct {
	hub      *Hub
	store    store.PollStore
	cfg      cliparse.Config
	upgrader websocket.Upgrader
	events   map[string]func(*Client, json.RawMessage)
}

func NewServer(st store.PollStore, hub *Hub, cfg cliparse.Config) *Server {
	s := &Server{
		hub:   hub,
		store: st,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.ClientOrigin == "" {
					return true
				}
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header.
				return origin == "" || origin == cfg.ClientOrigin
			},
		},
	}
	s.events = map[string]func(*Client, json.RawMessage){
		models.EventJoinPoll:   s.handleJoinPoll,
		models.EventSubmitVote: s.handleSubmitVote,
	}
	return s
}

// ServeHTTP handles GET /ws: upgrade, then one reader and one writer
// goroutine per connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(conn, middleware.GetClientIP(r))
	slog.Info("socket connected", "connection_id", c.id, "remote", r.RemoteAddr)

	go c.writePump()
	go s.readPump(c)
}

// readPump reads frames until the connection dies, dispatching each event to
// its handler. Handlers run to completion on this goroutine and must not
// block indefinitely; the store has bounded latency and publishing never
// waits on subscribers.
func (s *Server) readPump(c *Client) {
	defer func() {
		s.hub.UnsubscribeAll(c)
		c.shutdown()
		c.conn.Close()
		slog.Info("socket disconnected", "connection_id", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("socket read failed", "connection_id", c.id, "error", err)
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			slog.Debug("malformed frame ignored", "connection_id", c.id, "error", err)
			continue
		}

		handler, ok := s.events[env.Event]
		if !ok {
			slog.Debug("unknown event ignored", "connection_id", c.id, "event", env.Event)
			continue
		}
		handler(c, env.Data)
	}
}

// handleJoinPoll subscribes the connection to a poll's updates. No ack, no
// existence check; an empty or malformed request is silently ignored.
func (s *Server) handleJoinPoll(c *Client, data json.RawMessage) {
	var req models.JoinPollData
	if err := json.Unmarshal(data, &req); err != nil || req.PollID == "" {
		return
	}
	s.hub.Subscribe(c, req.PollID)
	slog.Debug("socket joined poll", "connection_id", c.id, "poll_id", req.PollID)
}

// handleSubmitVote processes one vote attempt: validate the submission,
// fingerprint the connection's origin, apply the vote, then either broadcast
// the refreshed snapshot to the poll's subscribers or report the rejection
// to the submitter alone. Each attempt is independent; the only memory
// between attempts is the store's voter record.
func (s *Server) handleSubmitVote(c *Client, data json.RawMessage) {
	var req models.SubmitVoteData
	if err := json.Unmarshal(data, &req); err != nil || req.PollID == "" || req.OptionID == "" {
		s.sendVoteError(c, "pollId and optionId are required")
		return
	}

	fp, err := fingerprint.Hash(c.origin, s.cfg.FingerprintSalt)
	if err != nil {
		slog.Error("failed to fingerprint voter", "connection_id", c.id, "error", err)
		s.sendVoteError(c, "Failed to submit vote")
		return
	}

	poll, err := s.store.ApplyVote(req.PollID, req.OptionID, fp)
	switch {
	case err == nil:
		slog.Info("vote applied", "poll_id", poll.ID, "option_id", req.OptionID)
		s.hub.Publish(poll.ID, poll)
	case errors.Is(err, store.ErrNotFound):
		s.sendVoteError(c, "Poll not found")
	case errors.Is(err, store.ErrAlreadyVoted):
		s.sendVoteError(c, "You have already voted on this poll")
	case errors.Is(err, store.ErrInvalidOption):
		s.sendVoteError(c, "Invalid option")
	default:
		slog.Error("failed to apply vote", "poll_id", req.PollID, "error", err)
		s.sendVoteError(c, "Failed to submit vote")
	}
}

// sendVoteError notifies only the submitting connection; rejections are
// never broadcast.
func (s *Server) sendVoteError(c *Client, message string) {
	payload, err := encodeEvent(models.EventVoteError, models.VoteErrorData{Message: message})
	if err != nil {
		slog.Error("failed to encode vote error", "error", err)
		return
	}
	c.trySend(payload)
}
