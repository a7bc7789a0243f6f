// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/livepoll/livepoll/cliparse"
	"github.com/livepoll/livepoll/db"
)

// newTestStore creates a store over a fresh in-memory sqlite database
func newTestStore(t *testing.T) *SQL {
	t.Helper()

	conn, err := db.Open(cliparse.Config{DatabaseType: "sqlite", DatabaseURL: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return NewSQL(conn, "sqlite")
}

func totalVotes(t *testing.T, st *SQL, pollID string) int {
	t.Helper()

	poll, err := st.Get(pollID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	total := 0
	for _, opt := range poll.Options {
		total += opt.VoteCount
	}
	return total
}

func TestCreatePoll(t *testing.T) {
	st := newTestStore(t)

	tests := []struct {
		name     string
		question string
		options  []string
		wantErr  bool
	}{
		{"valid poll", "Lunch?", []string{"Pizza", "Sushi"}, false},
		{"empty question", "", []string{"Pizza", "Sushi"}, true},
		{"whitespace question", "   ", []string{"Pizza", "Sushi"}, true},
		{"one option", "Lunch?", []string{"Pizza"}, true},
		{"options empty after trim", "Lunch?", []string{"Pizza", "  ", ""}, true},
		{"too many options", "Pick", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poll, err := st.Create(tt.question, tt.options)

			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Create() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if poll.ID == "" {
				t.Error("Create() returned empty poll ID")
			}
			if len(poll.Options) != 2 {
				t.Fatalf("Create() returned %d options, want 2", len(poll.Options))
			}
			for _, opt := range poll.Options {
				if opt.VoteCount != 0 {
					t.Errorf("option %q created with count %d, want 0", opt.Text, opt.VoteCount)
				}
			}
		})
	}
}

func TestCreatePollDropsEmptyOptions(t *testing.T) {
	st := newTestStore(t)

	poll, err := st.Create("  Lunch?  ", []string{" Pizza ", "", "Sushi", "   "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if poll.Question != "Lunch?" {
		t.Errorf("question = %q, want trimmed %q", poll.Question, "Lunch?")
	}
	if len(poll.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(poll.Options))
	}
	if poll.Options[0].Text != "Pizza" || poll.Options[1].Text != "Sushi" {
		t.Errorf("options = %q, %q; want Pizza, Sushi", poll.Options[0].Text, poll.Options[1].Text)
	}
}

func TestGetPoll(t *testing.T) {
	st := newTestStore(t)

	created, err := st.Create("Best season?", []string{"Spring", "Summer", "Autumn", "Winter"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := st.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.ID != created.ID || got.Question != "Best season?" {
		t.Errorf("Get() = %+v, want id %s question %q", got, created.ID, "Best season?")
	}

	// Option order must match creation order
	want := []string{"Spring", "Summer", "Autumn", "Winter"}
	for i, opt := range got.Options {
		if opt.Text != want[i] {
			t.Errorf("option[%d] = %q, want %q", i, opt.Text, want[i])
		}
	}
}

func TestGetPollNotFound(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Get("no-such-poll"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestApplyVote(t *testing.T) {
	st := newTestStore(t)

	poll, _ := st.Create("Lunch?", []string{"Pizza", "Sushi"})
	pizza := poll.Options[0]

	got, err := st.ApplyVote(poll.ID, pizza.ID, "fp-a")
	if err != nil {
		t.Fatalf("ApplyVote() error = %v", err)
	}

	if got.Options[0].VoteCount != 1 || got.Options[1].VoteCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", got.Options[0].VoteCount, got.Options[1].VoteCount)
	}
}

func TestApplyVoteAlreadyVoted(t *testing.T) {
	st := newTestStore(t)

	poll, _ := st.Create("Lunch?", []string{"Pizza", "Sushi"})
	pizza, sushi := poll.Options[0], poll.Options[1]

	if _, err := st.ApplyVote(poll.ID, pizza.ID, "fp-a"); err != nil {
		t.Fatalf("first ApplyVote() error = %v", err)
	}

	// Same fingerprint, any option: rejected without effect
	if _, err := st.ApplyVote(poll.ID, sushi.ID, "fp-a"); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("second ApplyVote() error = %v, want ErrAlreadyVoted", err)
	}

	if total := totalVotes(t, st, poll.ID); total != 1 {
		t.Errorf("total votes = %d, want 1", total)
	}
}

func TestApplyVoteInvalidOption(t *testing.T) {
	st := newTestStore(t)

	poll, _ := st.Create("Lunch?", []string{"Pizza", "Sushi"})
	other, _ := st.Create("Dinner?", []string{"Pasta", "Curry"})

	// An option id from a different poll never counts
	if _, err := st.ApplyVote(poll.ID, other.Options[0].ID, "fp-a"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("ApplyVote() error = %v, want ErrInvalidOption", err)
	}

	if total := totalVotes(t, st, poll.ID); total != 0 {
		t.Errorf("total votes = %d, want 0", total)
	}
	if total := totalVotes(t, st, other.ID); total != 0 {
		t.Errorf("other poll total votes = %d, want 0", total)
	}

	// The failed attempt must not have burned the fingerprint
	if _, err := st.ApplyVote(poll.ID, poll.Options[0].ID, "fp-a"); err != nil {
		t.Errorf("vote after rejected attempt failed: %v", err)
	}
}

func TestApplyVoteNotFound(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.ApplyVote("no-such-poll", "no-such-option", "fp-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ApplyVote() error = %v, want ErrNotFound", err)
	}
}

// TestVotingScenario walks the canonical flow: two options, voter A votes,
// A is rejected on a repeat, voter B votes, final tallies are 1/1.
func TestVotingScenario(t *testing.T) {
	st := newTestStore(t)

	poll, err := st.Create("Lunch?", []string{"Pizza", "Sushi"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	pizza, sushi := poll.Options[0], poll.Options[1]

	fetched, _ := st.Get(poll.ID)
	if fetched.Options[0].VoteCount != 0 || fetched.Options[1].VoteCount != 0 {
		t.Fatal("fresh poll should have zero counts")
	}

	after, err := st.ApplyVote(poll.ID, pizza.ID, "fp-a")
	if err != nil {
		t.Fatalf("A's vote failed: %v", err)
	}
	if after.Options[0].VoteCount != 1 || after.Options[1].VoteCount != 0 {
		t.Errorf("after A: %d/%d, want 1/0", after.Options[0].VoteCount, after.Options[1].VoteCount)
	}

	if _, err := st.ApplyVote(poll.ID, sushi.ID, "fp-a"); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("A's second vote: error = %v, want ErrAlreadyVoted", err)
	}

	after, err = st.ApplyVote(poll.ID, sushi.ID, "fp-b")
	if err != nil {
		t.Fatalf("B's vote failed: %v", err)
	}
	if after.Options[0].VoteCount != 1 || after.Options[1].VoteCount != 1 {
		t.Errorf("after B: %d/%d, want 1/1", after.Options[0].VoteCount, after.Options[1].VoteCount)
	}
}

// TestConcurrentVotesDistinctFingerprints verifies no lost updates: N
// concurrent voters with distinct fingerprints all succeed and the final
// total is exactly N.
func TestConcurrentVotesDistinctFingerprints(t *testing.T) {
	st := newTestStore(t)

	poll, _ := st.Create("Lunch?", []string{"Pizza", "Sushi", "Tacos"})

	numVoters := 12
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			fp := "fp-" + string(rune('a'+n))
			opt := poll.Options[n%len(poll.Options)]
			if _, err := st.ApplyVote(poll.ID, opt.ID, fp); err == nil {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}
	if total := totalVotes(t, st, poll.ID); total != numVoters {
		t.Errorf("total votes = %d, want %d", total, numVoters)
	}
}

// TestConcurrentVotesSameFingerprint verifies the race-free double-vote
// check: of N simultaneous votes with one fingerprint, exactly one lands.
func TestConcurrentVotesSameFingerprint(t *testing.T) {
	st := newTestStore(t)

	poll, _ := st.Create("Lunch?", []string{"Pizza", "Sushi"})

	numAttempts := 8
	var successCount atomic.Int32
	var rejectedCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			opt := poll.Options[n%2]
			_, err := st.ApplyVote(poll.ID, opt.ID, "fp-contested")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				rejectedCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successCount.Load())
	}
	if int(rejectedCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d rejections, got %d", numAttempts-1, rejectedCount.Load())
	}
	if total := totalVotes(t, st, poll.ID); total != 1 {
		t.Errorf("total votes = %d, want 1", total)
	}
}
