// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"

	"github.com/livepoll/livepoll/models"
)

var (
	// ErrNotFound means the poll does not exist (or the id is malformed).
	ErrNotFound = errors.New("poll not found")

	// ErrAlreadyVoted means the fingerprint is already recorded for the poll.
	ErrAlreadyVoted = errors.New("fingerprint has already voted on this poll")

	// ErrInvalidOption means the option does not belong to the poll.
	ErrInvalidOption = errors.New("option does not belong to poll")

	// ErrValidation means the input was rejected before touching storage.
	ErrValidation = errors.New("invalid input")
)

// PollStore is the durable record of polls, tallies, and voter fingerprints.
// ApplyVote is the sole mutating entry point after creation and must be
// race-free per poll: two concurrent votes with the same fingerprint must
// not both succeed, and concurrent votes with distinct fingerprints must all
// be counted.
type PollStore interface {
	// Create stores a new poll with zero-initialized counts. Question and
	// option texts are trimmed; empty options are dropped. Fails with
	// ErrValidation if the question is empty or fewer than 2 options remain.
	Create(question string, options []string) (models.Poll, error)

	// Get returns the current snapshot of a poll, without voter
	// fingerprints. Fails with ErrNotFound if no such poll exists.
	Get(pollID string) (models.Poll, error)

	// ApplyVote atomically records one vote: it verifies the poll exists,
	// the fingerprint has not voted, and the option belongs to the poll,
	// then increments the option's count and appends the fingerprint.
	// All-or-nothing: on ErrNotFound, ErrAlreadyVoted, or ErrInvalidOption
	// no state changes. Returns the refreshed snapshot on success.
	ApplyVote(pollID, optionID, fp string) (models.Poll, error)
}
