// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// WebSocket event names

const (
	// Client -> server
	EventJoinPoll   = "join_poll"
	EventSubmitVote = "submit_vote"

	// Server -> client
	EventPollUpdated = "poll_updated"
	EventVoteError   = "vote_error"
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Response types

type CreatePollResponse struct {
	PollID string `json:"pollId"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// Domain types

// Option is one votable choice within a poll. Options are created with the
// poll and never change afterwards, except for VoteCount.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"voteCount"`
}

// Poll is the client-facing snapshot of a poll: question, options in
// creation order, and live tallies. Voter fingerprints are deliberately not
// part of this type so they can never leak into a response or broadcast.
type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"createdAt"`
}

// WebSocket event types

// Envelope is the frame format for every websocket message in both
// directions: an event name plus an event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinPollData struct {
	PollID string `json:"pollId"`
}

type SubmitVoteData struct {
	PollID   string `json:"pollId"`
	OptionID string `json:"optionId"`
}

type VoteErrorData struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
}
