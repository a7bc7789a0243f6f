// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and websocket event types.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options (2-8 strings)

# Response Types

Types for JSON responses:

  - CreatePollResponse: pollId
  - StatusResponse: status
  - ErrorResponse: error

# Domain Types

  - Poll: client-facing snapshot (id, question, options, createdAt)
  - Option: one choice with its live voteCount

Poll is a snapshot type: it never carries voter fingerprints, so any value
of this type is safe to broadcast or return to a client.

# WebSocket Events

Every frame on the realtime channel is an Envelope:

	{"event": "submit_vote", "data": {"pollId": "...", "optionId": "..."}}

Event names:

	EventJoinPoll    = "join_poll"    (client -> server)
	EventSubmitVote  = "submit_vote"  (client -> server)
	EventPollUpdated = "poll_updated" (server -> client)
	EventVoteError   = "vote_error"   (server -> client)

Payload types: JoinPollData, SubmitVoteData, VoteErrorData. A poll_updated
payload is a Poll snapshot.
*/
package models
