// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the durable poll store: questions, options, live tallies,
and the fingerprints that have already voted.

# Contract

PollStore has three operations:

	poll, err := st.Create("Lunch?", []string{"Pizza", "Sushi"})
	poll, err := st.Get(pollID)
	poll, err := st.ApplyVote(pollID, optionID, fingerprint)

All three return snapshots (models.Poll) that never contain fingerprints.

# Errors

Failures map to sentinel errors checked with errors.Is:

  - ErrValidation: empty question, fewer than 2 non-empty options, empty fingerprint
  - ErrNotFound: poll does not exist
  - ErrAlreadyVoted: fingerprint already recorded for the poll
  - ErrInvalidOption: option does not belong to the poll

Anything else is a storage failure and wraps the driver error.

# Vote Atomicity

ApplyVote runs as a single transaction: poll lookup, voter INSERT, then a
conditional vote_count UPDATE. The voter table's (poll_id, fingerprint)
primary key is what makes the check-then-increment race-free: of two
concurrent votes with the same fingerprint exactly one INSERT succeeds, and
the loser rolls back with ErrAlreadyVoted having changed nothing. Votes with
distinct fingerprints proceed independently and are all counted.

# Drivers

SQL works on both sqlite (modernc.org/sqlite) and postgres (lib/pq). The
dialect chooses placeholder syntax and how unique violations are recognized
(pq error code 23505 vs the sqlite constraint message).
*/
package store
