// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/livepoll/livepoll/models"
)

const maxOptions = 8

// SQL implements PollStore on a *sql.DB, for both the sqlite and postgres
// drivers.
type SQL struct {
	db      *sql.DB
	dialect string
}

// NewSQL wraps an open connection. dialect is "sqlite" or "postgres" and
// only affects placeholder syntax and error classification.
func NewSQL(db *sql.DB, dialect string) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// q rewrites ? placeholders to $N for postgres. Queries are written with ?
// because the two drivers disagree on placeholder syntax.
func (s *SQL) q(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a primary key / unique constraint
// failure, in either driver's dialect.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *SQL) Create(question string, options []string) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Poll{}, fmt.Errorf("%w: question is required", ErrValidation)
	}

	texts := make([]string, 0, len(options))
	for _, opt := range options {
		if t := strings.TrimSpace(opt); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) < 2 {
		return models.Poll{}, fmt.Errorf("%w: at least 2 non-empty options required", ErrValidation)
	}
	if len(texts) > maxOptions {
		return models.Poll{}, fmt.Errorf("%w: at most %d options allowed", ErrValidation, maxOptions)
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		Options:   make([]models.Option, 0, len(texts)),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(s.q(`
		INSERT INTO poll (id, question, created_at)
		VALUES (?, ?, ?)
	`), poll.ID, poll.Question, poll.CreatedAt)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, text := range texts {
		opt := models.Option{ID: uuid.NewString(), Text: text}
		_, err = tx.Exec(s.q(`
			INSERT INTO option (id, poll_id, text, position, vote_count)
			VALUES (?, ?, ?, ?, 0)
		`), opt.ID, poll.ID, opt.Text, i)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}

	return poll, nil
}

func (s *SQL) Get(pollID string) (models.Poll, error) {
	return s.snapshot(s.db, pollID)
}

func (s *SQL) ApplyVote(pollID, optionID, fp string) (models.Poll, error) {
	if fp == "" {
		return models.Poll{}, fmt.Errorf("%w: fingerprint is required", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRow(s.q(`SELECT id FROM poll WHERE id = ?`), pollID).Scan(&exists)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	// The voter primary key (poll_id, fingerprint) makes this the race-free
	// check: of two concurrent votes with the same fingerprint, exactly one
	// INSERT lands and the other fails with a unique violation.
	_, err = tx.Exec(s.q(`
		INSERT INTO voter (poll_id, fingerprint, voted_at)
		VALUES (?, ?, ?)
	`), pollID, fp, time.Now().UTC())
	if isUniqueViolation(err) {
		return models.Poll{}, ErrAlreadyVoted
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to record voter: %w", err)
	}

	res, err := tx.Exec(s.q(`
		UPDATE option SET vote_count = vote_count + 1
		WHERE id = ? AND poll_id = ?
	`), optionID, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to increment vote count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Option missing or owned by a different poll. The deferred
		// rollback discards the voter row, so nothing is recorded.
		return models.Poll{}, ErrInvalidOption
	}

	poll, err := s.snapshot(tx, pollID)
	if err != nil {
		return models.Poll{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return poll, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx, so snapshots can be
// read standalone or inside the vote transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

func (s *SQL) snapshot(q querier, pollID string) (models.Poll, error) {
	var poll models.Poll
	err := q.QueryRow(s.q(`
		SELECT id, question, created_at FROM poll WHERE id = ?
	`), pollID).Scan(&poll.ID, &poll.Question, &poll.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := q.Query(s.q(`
		SELECT id, text, vote_count FROM option
		WHERE poll_id = ?
		ORDER BY position
	`), pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	poll.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.VoteCount); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to read options: %w", err)
	}

	return poll, nil
}
