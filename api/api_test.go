package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stride "github.com/striderun/stride-go"
)

type transportCall struct {
	Method string
	Path   string
	Body   interface{}
}

// fakeTransport records calls and replays canned results, so service tests
// exercise the typed layer without any HTTP.
type fakeTransport struct {
	calls   []transportCall
	results []result

	access  string
	refresh string
	cleared bool
}

type result struct {
	resp *stride.Response
	err  error
}

func (f *fakeTransport) reply(status int, body string) {
	f.results = append(f.results, result{resp: &stride.Response{StatusCode: status, Body: []byte(body)}})
}

func (f *fakeTransport) fail(err error) {
	f.results = append(f.results, result{err: err})
}

func (f *fakeTransport) Do(_ context.Context, method, path string, body interface{}, _ ...stride.RequestOption) (*stride.Response, error) {
	f.calls = append(f.calls, transportCall{Method: method, Path: path, Body: body})
	if len(f.results) == 0 {
		return &stride.Response{StatusCode: http.StatusOK}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.resp, r.err
}

func (f *fakeTransport) Get(ctx context.Context, path string, opts ...stride.RequestOption) (*stride.Response, error) {
	return f.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (f *fakeTransport) Post(ctx context.Context, path string, body interface{}, opts ...stride.RequestOption) (*stride.Response, error) {
	return f.Do(ctx, http.MethodPost, path, body, opts...)
}

func (f *fakeTransport) Put(ctx context.Context, path string, body interface{}, opts ...stride.RequestOption) (*stride.Response, error) {
	return f.Do(ctx, http.MethodPut, path, body, opts...)
}

func (f *fakeTransport) Patch(ctx context.Context, path string, body interface{}, opts ...stride.RequestOption) (*stride.Response, error) {
	return f.Do(ctx, http.MethodPatch, path, body, opts...)
}

func (f *fakeTransport) Delete(ctx context.Context, path string, opts ...stride.RequestOption) (*stride.Response, error) {
	return f.Do(ctx, http.MethodDelete, path, nil, opts...)
}

func (f *fakeTransport) SetCredentials(_ context.Context, access, refresh string) error {
	f.access, f.refresh = access, refresh
	return nil
}

func (f *fakeTransport) ClearCredentials(context.Context) error {
	f.cleared = true
	f.access, f.refresh = "", ""
	return nil
}

func TestLoginStoresCredentialPair(t *testing.T) {
	ft := &fakeTransport{}
	ft.reply(200, `{"access_token":"a","refresh_token":"r","user":{"email":"runner@example.com","name":"Runner"}}`)
	client := New(ft)

	user, err := client.Auth.Login(context.Background(), "runner@example.com", "negative-split")
	require.NoError(t, err)

	assert.Equal(t, "Runner", user.Name)
	assert.Equal(t, "a", ft.access)
	assert.Equal(t, "r", ft.refresh)

	require.Len(t, ft.calls, 1)
	assert.Equal(t, http.MethodPost, ft.calls[0].Method)
	assert.Equal(t, "/auth/login", ft.calls[0].Path)
	assert.Equal(t, LoginRequest{Email: "runner@example.com", Password: "negative-split"}, ft.calls[0].Body)
}

func TestLoginFailureLeavesNoCredentials(t *testing.T) {
	ft := &fakeTransport{}
	ft.fail(&stride.APIError{Message: "Authentication failed. Please log in again.", StatusCode: 401})
	client := New(ft)

	_, err := client.Auth.Login(context.Background(), "runner@example.com", "wrong")
	require.Error(t, err)
	assert.Empty(t, ft.access)
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	t.Run("server error still surfaces", func(t *testing.T) {
		ft := &fakeTransport{}
		ft.fail(&stride.APIError{Message: "boom", StatusCode: 500})
		client := New(ft)

		err := client.Auth.Logout(context.Background())
		require.Error(t, err)
		assert.True(t, ft.cleared)
	})

	t.Run("401 means already logged out", func(t *testing.T) {
		ft := &fakeTransport{}
		ft.fail(&stride.APIError{Message: "no session", StatusCode: 401})
		client := New(ft)

		require.NoError(t, client.Auth.Logout(context.Background()))
		assert.True(t, ft.cleared)
	})
}

func TestRunListDecodesAndBoundsWindow(t *testing.T) {
	ft := &fakeTransport{}
	ft.reply(200, `[{"id":"7d9f0f6a-61a0-4f6e-9a37-b90457b9c1de","date":"2026-08-20T06:30:00Z","distance_km":"12.4","duration_seconds":3654,"notes":"tempo"}]`)
	client := New(ft)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	runs, err := client.Runs.List(context.Background(), from, time.Time{})
	require.NoError(t, err)

	require.Len(t, runs, 1)
	assert.True(t, runs[0].DistanceKm.Equal(decimal.RequireFromString("12.4")))
	assert.Equal(t, 3654, runs[0].DurationSeconds)
	assert.Equal(t, "/api/runs", ft.calls[0].Path)
}

func TestGoalSetPutsToYearPath(t *testing.T) {
	ft := &fakeTransport{}
	ft.reply(200, `{"year":2026,"target_km":"1200","progress_km":"734.2"}`)
	client := New(ft)

	goal, err := client.Goals.Set(context.Background(), 2026, decimal.RequireFromString("1200"))
	require.NoError(t, err)

	assert.Equal(t, 2026, goal.Year)
	assert.True(t, goal.ProgressKm.Equal(decimal.RequireFromString("734.2")))
	assert.Equal(t, http.MethodPut, ft.calls[0].Method)
	assert.Equal(t, "/api/goals/2026", ft.calls[0].Path)
}

func TestStatsSummaryDecodes(t *testing.T) {
	ft := &fakeTransport{}
	ft.reply(200, `{"total_runs":42,"total_distance_km":"512.8","total_seconds":180000,"weekly_km":"38.5"}`)
	client := New(ft)

	stats, err := client.Stats.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, stats.TotalRuns)
	assert.True(t, stats.WeeklyKm.Equal(decimal.RequireFromString("38.5")))
}

func TestServiceErrorsPassThroughUntouched(t *testing.T) {
	want := &stride.APIError{Message: "The requested resource was not found.", StatusCode: 404}
	ft := &fakeTransport{}
	ft.fail(want)
	client := New(ft)

	_, err := client.Stats.Summary(context.Background())

	var apiErr *stride.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Same(t, want, apiErr)
}
