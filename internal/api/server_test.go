package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faradayfan/instance-power/internal/control"
	"github.com/faradayfan/instance-power/internal/protocol"
)

type recordingDispatcher struct {
	events []protocol.Event
	resp   protocol.Response
	err    error
}

func (d *recordingDispatcher) Handle(_ context.Context, ev protocol.Event) (protocol.Response, error) {
	d.events = append(d.events, ev)
	return d.resp, d.err
}

type stubCompute struct {
	state string
	err   error
}

func (s stubCompute) StartInstance(context.Context, string) error { return s.err }
func (s stubCompute) StopInstance(context.Context, string) error  { return s.err }
func (s stubCompute) InstanceState(context.Context, string) (string, error) {
	return s.state, s.err
}

func setupTestServer(t *testing.T, d Dispatcher) *httptest.Server {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	srv := httptest.NewServer(NewServer(d, "", logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNewServer_DefaultAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", NewServer(&recordingDispatcher{}, "", nil).Addr())
	assert.Equal(t, ":9000", NewServer(&recordingDispatcher{}, ":9000", nil).Addr())
}

func TestInvoke_QueryBecomesQueryStringParameters(t *testing.T) {
	d := &recordingDispatcher{resp: protocol.NewMessage(http.StatusOK, "ok")}
	srv := setupTestServer(t, d)

	res, err := http.Get(srv.URL + "/?action=START")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, readBody(t, res))

	require.Len(t, d.events, 1)
	assert.Equal(t, protocol.Event{
		protocol.KeyQueryParams: map[string]any{"action": "START"},
	}, d.events[0])
}

func TestInvoke_PostBodyIsTopLevel(t *testing.T) {
	d := &recordingDispatcher{resp: protocol.NewMessage(http.StatusOK, "ok")}
	srv := setupTestServer(t, d)

	res, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"action":"stop"}`))
	require.NoError(t, err)
	readBody(t, res)

	require.Len(t, d.events, 1)
	assert.Equal(t, protocol.Event{"action": "stop"}, d.events[0])
}

func TestInvoke_EmptyPost(t *testing.T) {
	d := &recordingDispatcher{resp: protocol.NewMessage(http.StatusBadRequest, protocol.InvalidActionMessage)}
	srv := setupTestServer(t, d)

	res, err := http.Post(srv.URL+"/", "application/json", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	readBody(t, res)
	require.Len(t, d.events, 1)
	assert.Empty(t, d.events[0])
}

func TestInvoke_BadJSON(t *testing.T) {
	d := &recordingDispatcher{}
	srv := setupTestServer(t, d)

	res, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"action":`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"invalid json body"}`, readBody(t, res))
	assert.Empty(t, d.events)
}

func TestInvoke_DispatcherError(t *testing.T) {
	d := &recordingDispatcher{err: errors.New("boom")}
	srv := setupTestServer(t, d)

	res, err := http.Get(srv.URL + "/?action=start")
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.JSONEq(t, `{"error":"boom"}`, readBody(t, res))
}

func TestHealthz(t *testing.T) {
	srv := setupTestServer(t, &recordingDispatcher{})

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", readBody(t, res))
}

func TestUnknownPath(t *testing.T) {
	srv := setupTestServer(t, &recordingDispatcher{})

	res, err := http.Get(srv.URL + "/servers")
	require.NoError(t, err)
	readBody(t, res)

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestEndToEnd_WithControlHandler(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	cases := []struct {
		name    string
		compute stubCompute
		query   string
		status  int
		body    string
	}{
		{"status", stubCompute{state: "running"}, "?action=status", http.StatusOK,
			`{"message":"Instance i-abc123 is currently running."}`},
		{"stop fails", stubCompute{err: errors.New("AccessDenied")}, "?action=stop", http.StatusInternalServerError,
			`{"error":"AccessDenied"}`},
		{"no action", stubCompute{}, "", http.StatusBadRequest,
			`{"message":"Invalid action. Use 'start', 'stop', or 'status'."}`},
		{"empty action", stubCompute{}, "?action=", http.StatusBadRequest,
			`{"message":"Invalid action. Use 'start', 'stop', or 'status'."}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := setupTestServer(t, control.NewHandler("i-abc123", tc.compute, logger))

			res, err := http.Get(srv.URL + "/" + tc.query)
			require.NoError(t, err)

			assert.Equal(t, tc.status, res.StatusCode)
			assert.JSONEq(t, tc.body, readBody(t, res))
		})
	}
}
