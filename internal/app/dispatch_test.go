package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"quiz-client/internal/api/apitest"
	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestDispatchDrivesAFullRun(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.backend.AddUser("alice", "secret", false)
	h.backend.AddCourse("X", apitest.Course{Questions: apitest.Questions(2), FreeMax: 2, SubscribedMax: 2})

	steps := []struct {
		action  app.Action
		payload any
		screen  string
	}{
		{app.ActionShowRegister, nil, "register"},
		{app.ActionShowLogin, nil, "login"},
		{app.ActionLogin, app.CredentialsPayload{Username: "alice", Password: "secret"}, "subscription"},
		{app.ActionDismissNotice, nil, "subscription"},
		{app.ActionContinueFree, nil, "start"},
		{app.ActionStart, app.StartPayload{DisplayName: "Alice", Course: "X", Count: 2}, "quiz"},
		{app.ActionSelect, app.SelectPayload{Option: "right"}, "quiz"},
		{app.ActionNext, nil, "quiz"},
		{app.ActionSelect, app.SelectPayload{Option: "right"}, "quiz"},
		{app.ActionBack, nil, "quiz"},
		{app.ActionEnd, nil, "result"},
		{app.ActionRestart, nil, "start"},
		{app.ActionLogout, nil, "login"},
	}
	for _, step := range steps {
		var raw json.RawMessage
		if step.payload != nil {
			raw = mustJSON(t, step.payload)
		}
		verdict, err := h.ctrl.Dispatch(ctx, step.action, raw)
		require.NoError(t, err, step.action)
		assert.Equal(t, step.action, verdict.Action)
		assert.False(t, verdict.Blocked)
		assert.Equal(t, step.screen, h.ctrl.View().Screen, step.action)
	}
}

func TestDispatchRejectsUnknownAndMalformed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.ctrl.Dispatch(ctx, "fly", nil)
	assert.True(t, errors.Is(err, domain.ErrUnknownAction))

	_, err = h.ctrl.Dispatch(ctx, app.ActionLogin, json.RawMessage(`{"username":`))
	assert.True(t, errors.Is(err, domain.ErrInvalidPayload))
	assert.Empty(t, h.backend.Calls())
}

func TestDispatchGuardVerdicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	v, err := h.ctrl.Dispatch(ctx, app.ActionContextMenu, nil)
	require.NoError(t, err)
	assert.True(t, v.Blocked)

	v, err = h.ctrl.Dispatch(ctx, app.ActionKeyDown, mustJSON(t, guard.KeyEvent{Key: "F12"}))
	require.NoError(t, err)
	assert.True(t, v.Blocked)

	v, err = h.ctrl.Dispatch(ctx, app.ActionKeyDown, mustJSON(t, guard.KeyEvent{Key: "a"}))
	require.NoError(t, err)
	assert.False(t, v.Blocked)
}

func TestGuardProbeAlertsOncePerOpening(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.ctrl.EnableGuard()
	h.ctrl.EnableGuard()
	require.Equal(t, 1, h.sched.Repeating())

	h.sched.Tick()
	assert.Empty(t, h.ctrl.View().Alert, "no metrics reported yet")

	docked := guard.Metrics{OuterWidth: 1400, OuterHeight: 900, InnerWidth: 900, InnerHeight: 820}
	_, err := h.ctrl.Dispatch(ctx, app.ActionViewport, mustJSON(t, docked))
	require.NoError(t, err)

	h.sched.Tick()
	assert.NotEmpty(t, h.ctrl.View().Alert)
	renders := h.renders.Count()

	h.sched.Tick()
	assert.Equal(t, renders, h.renders.Count(), "still open, nothing new to show")

	require.NoError(t, h.ctrl.DismissAlert())
	h.sched.Tick()
	assert.Empty(t, h.ctrl.View().Alert, "dismissed alert stays hidden while open")

	h.ctrl.ReportMetrics(guard.Metrics{OuterWidth: 1400, OuterHeight: 900, InnerWidth: 1400, InnerHeight: 820})
	h.sched.Tick()
	h.ctrl.ReportMetrics(docked)
	h.sched.Tick()
	assert.NotEmpty(t, h.ctrl.View().Alert)

	_, ok := h.ctrl.Session()
	assert.False(t, ok, "the guard never creates or drops sessions")

	h.ctrl.Close()
	assert.Zero(t, h.sched.Repeating())
}
