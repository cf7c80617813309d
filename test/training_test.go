//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymroutine/internal/events"
	"github.com/2beens/gymroutine/internal/resttimer"
	"github.com/2beens/gymroutine/internal/routines"
	"github.com/2beens/gymroutine/internal/training"
	"github.com/2beens/gymroutine/internal/training/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, body string, out any) int {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	if out != nil && resp.StatusCode < 300 {
		require.NoError(s.T(), json.Unmarshal(respBytes, out), string(respBytes))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) TestRoutine_SaveAndGet() {
	ctx := context.Background()

	var empty routines.Routine
	s.Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/routines/u-save/friday", "", &empty))
	s.Empty(empty.Exercises)

	var saved routines.Routine
	status := s.doRequest(ctx, http.MethodPut, "/routines/u-save/viernes",
		`{"exercises":[{"exerciseId":"deadlift","name":"Deadlift","sets":[{"weight":140,"reps":3,"restSeconds":240}]}]}`,
		&saved,
	)
	s.Require().Equal(http.StatusOK, status)
	s.NotZero(saved.ID)

	var got routines.Routine
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/routines/u-save/friday", "", &got))
	s.Require().Len(got.Exercises, 1)
	s.Equal(240, got.Exercises[0].Sets[0].RestSeconds)

	s.Equal(http.StatusNoContent, s.doRequest(ctx, http.MethodPut, "/routines/u-save/friday/exercises/0/sets/0",
		`{"weight":142.5,"reps":3,"completed":true}`, nil,
	))
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/routines/u-save/friday", "", &got))
	s.True(got.Exercises[0].Sets[0].Completed)
	s.Equal(142.5, got.Exercises[0].Sets[0].Weight)
}

func (s *IntegrationTestSuite) TestTraining_RestExpires() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	t := s.T()

	pubsub := s.redisClient.Subscribe(ctx, restExpiredChannel)
	defer pubsub.Close()
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	status := s.doRequest(ctx, http.MethodPut, "/routines/u-int/monday",
		`{"exercises":[{"exerciseId":"squat","name":"Squat","sets":[{"weight":100,"reps":5,"restSeconds":2},{"weight":100,"reps":5,"restSeconds":90}]}]}`,
		nil,
	)
	require.Equal(t, http.StatusOK, status)

	var session training.SessionView
	require.Equal(t, http.StatusCreated, s.doRequest(ctx, http.MethodPost, "/training/sessions", `{"userId":"u-int","day":"lunes"}`, &session))
	require.Len(t, session.Timers, 2)
	assert.Equal(t, "00:02", session.Timers[0].Display)
	assert.Equal(t, "01:30", session.Timers[1].Display)

	timers := fmt.Sprintf("/training/sessions/%s/timers", session.ID)

	var timer training.TimerView
	require.Equal(t, http.StatusOK, s.doRequest(ctx, http.MethodPost, timers+"/0/0/start", "", &timer))
	assert.True(t, timer.Running)

	select {
	case msg := <-pubsub.Channel():
		var expired notify.RestExpired
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &expired))
		assert.Equal(t, session.ID, expired.SessionID)
		assert.Equal(t, "u-int", expired.UserID)
		assert.Equal(t, 0, expired.Exercise)
		assert.Equal(t, 0, expired.Set)
	case <-ctx.Done():
		t.Fatal("rest expired message not received")
	}

	require.Equal(t, http.StatusOK, s.doRequest(ctx, http.MethodGet, timers+"/0/0", "", &timer))
	assert.Equal(t, resttimer.StatusExpired, timer.Status)
	assert.Equal(t, "00:00", timer.Display)

	// editing the rest resets the countdown and updates the routine
	var updated training.UpdateRestResponse
	require.Equal(t, http.StatusOK, s.doRequest(ctx, http.MethodPut, timers+"/0/1/rest", `{"seconds":75}`, &updated))
	assert.True(t, updated.Persisted)
	assert.Equal(t, "01:15", updated.Timer.Display)

	var routine routines.Routine
	require.Equal(t, http.StatusOK, s.doRequest(ctx, http.MethodGet, "/routines/u-int/monday", "", &routine))
	assert.Equal(t, 75, routine.Exercises[0].Sets[1].RestSeconds)

	require.Equal(t, http.StatusNoContent, s.doRequest(ctx, http.MethodDelete, "/training/sessions/"+session.ID, "", nil))
	assert.Equal(t, http.StatusNotFound, s.doRequest(ctx, http.MethodGet, "/training/sessions/"+session.ID, "", nil))

	// events are written off the request path
	require.Eventually(t, func() bool {
		var list events.ListResponse
		if s.doRequest(ctx, http.MethodGet, "/events?userId=u-int", "", &list) != http.StatusOK {
			return false
		}
		return list.Total == 4
	}, 10*time.Second, 100*time.Millisecond)

	var finished events.ListResponse
	require.Equal(t, http.StatusOK, s.doRequest(ctx, http.MethodGet, "/events?userId=u-int&type=training_finished", "", &finished))
	require.Len(t, finished.Events, 1)
	assert.Equal(t, "1", finished.Events[0].Data["setsCompleted"])
}
