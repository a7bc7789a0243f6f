// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime implements the live side of Livepoll: the websocket
endpoint, the per-poll subscription registry, and the broadcast of fresh
tallies after every vote.

# Protocol

Clients connect to GET /ws. Every frame is a JSON envelope:

	{"event": "join_poll",   "data": {"pollId": "..."}}
	{"event": "submit_vote", "data": {"pollId": "...", "optionId": "..."}}

and the server pushes:

	{"event": "poll_updated", "data": <poll snapshot>}   to all subscribers
	{"event": "vote_error",   "data": {"message": "..."}} to the voter only

Unknown or malformed frames are ignored. join_poll has no acknowledgment
and does not check that the poll exists.

# Vote Coordination

A submit_vote frame moves through validate -> fingerprint -> apply ->
broadcast. Validation failures and store rejections (Poll not found, already
voted, invalid option) go back to the submitting connection as vote_error
with a fixed message; nothing is broadcast and, per the store contract, no
state changed. On success the refreshed snapshot is published to every
connection subscribed to that poll, including the voter.

# Delivery Semantics

Broadcast is best-effort and fire-and-forget. Each client has a small
buffered send queue drained by its own write pump; Publish never blocks on a
subscriber, and a queue that is full (or a connection that is gone) just
misses that update. Subscribers present at publish time are the delivery
set; a connection that joins later sees current state by fetching the poll
over REST.

# Connection Lifecycle

Each connection gets one reader and one writer goroutine. The reader
enforces a read limit and a pong deadline; the writer pings on a timer.
When the reader exits the client is removed from every interest set and its
queue is closed. Reconnecting yields a fresh connection id with no
subscriptions: re-issuing join_poll is the client's responsibility.

A vote that was applied stays applied if the voter disconnects mid-attempt;
only the notification to the now-absent connection is dropped.
*/
package realtime
