// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/testutil"
)

func TestCreatePoll(t *testing.T) {
	st := testutil.NewTestStore(t)
	handler := NewPollHandler(st)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid poll",
			body:       models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza", "Sushi"}},
			wantStatus: 201,
		},
		{
			name:       "missing question",
			body:       models.CreatePollRequest{Options: []string{"Pizza", "Sushi"}},
			wantStatus: 400,
			wantError:  "Poll question is required",
		},
		{
			name:       "one option",
			body:       models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza"}},
			wantStatus: 400,
			wantError:  "At least 2 options are required",
		},
		{
			name:       "options blank after trim",
			body:       models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza", "   "}},
			wantStatus: 400,
			wantError:  "At least 2 non-empty options are required",
		},
		{
			name: "too many options",
			body: models.CreatePollRequest{
				Question: "Pick",
				Options:  []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"},
			},
			wantStatus: 400,
			wantError:  "No more than 8 options are allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/polls", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantError != "" {
				var errResp models.ErrorResponse
				testutil.AssertJSON(t, w, &errResp)
				if errResp.Error != tt.wantError {
					t.Errorf("error = %q, want %q", errResp.Error, tt.wantError)
				}
				return
			}

			var resp models.CreatePollResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.PollID == "" {
				t.Error("missing pollId in response")
			}
		})
	}
}

func TestCreatePollInvalidJSON(t *testing.T) {
	st := testutil.NewTestStore(t)
	handler := NewPollHandler(st)

	req := httptest.NewRequest("POST", "/api/polls", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestGetPoll(t *testing.T) {
	st := testutil.NewTestStore(t)
	handler := NewPollHandler(st)

	created := testutil.CreateTestPoll(t, st, "Lunch?", "Pizza", "Sushi")

	req := testutil.MakeRequest("GET", "/api/polls/"+created.ID, nil, nil)
	req.SetPathValue("id", created.ID)
	w := httptest.NewRecorder()

	handler.GetPoll(w, req)

	testutil.AssertStatus(t, w, 200)

	var poll models.Poll
	testutil.AssertJSON(t, w, &poll)

	if poll.ID != created.ID || poll.Question != "Lunch?" {
		t.Errorf("poll = %+v, want id %s question Lunch?", poll, created.ID)
	}
	if len(poll.Options) != 2 || poll.Options[0].Text != "Pizza" || poll.Options[1].Text != "Sushi" {
		t.Errorf("options = %+v, want Pizza then Sushi", poll.Options)
	}
	for _, opt := range poll.Options {
		if opt.VoteCount != 0 {
			t.Errorf("option %q voteCount = %d, want 0", opt.Text, opt.VoteCount)
		}
	}
}

func TestGetPollNeverExposesFingerprints(t *testing.T) {
	st := testutil.NewTestStore(t)
	handler := NewPollHandler(st)

	created := testutil.CreateTestPoll(t, st, "Lunch?", "Pizza", "Sushi")
	if _, err := st.ApplyVote(created.ID, created.Options[0].ID, "fp-secret"); err != nil {
		t.Fatalf("ApplyVote() error = %v", err)
	}

	req := testutil.MakeRequest("GET", "/api/polls/"+created.ID, nil, nil)
	req.SetPathValue("id", created.ID)
	w := httptest.NewRecorder()

	handler.GetPoll(w, req)

	testutil.AssertStatus(t, w, 200)
	body := w.Body.String()
	if strings.Contains(body, "fp-secret") || strings.Contains(body, "fingerprint") {
		t.Errorf("response leaked voter data: %s", body)
	}
}

func TestGetPollNotFound(t *testing.T) {
	st := testutil.NewTestStore(t)
	handler := NewPollHandler(st)

	req := testutil.MakeRequest("GET", "/api/polls/no-such-poll", nil, nil)
	req.SetPathValue("id", "no-such-poll")
	w := httptest.NewRecorder()

	handler.GetPoll(w, req)

	testutil.AssertStatus(t, w, 404)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Error != "Poll not found" {
		t.Errorf("error = %q, want %q", errResp.Error, "Poll not found")
	}
}
