package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoststatus/pkg/client"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, client.Options{RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond, RequestTimeout: time.Second})
}

func TestRunNode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hostname":"web-1","uptime":"2h 5m","uptime_seconds":7500,
			"memory":{"total":2147483648,"used":1073741824,"available":1073741824},
			"storage":{"path":"/","total":10737418240,"used":5368709120,"available":5368709120}}`))
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, "node", &out))
	assert.Contains(t, out.String(), "web-1")
	assert.Contains(t, out.String(), "1.0 GiB used / 2.0 GiB total")
	assert.Contains(t, out.String(), "5.0 GiB available (/)")
}

func TestRunStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Service":"Service2","IP Address":"10.0.0.9","Running Processes":["1 init"],"Available Disk Space":"df","Uptime (seconds)":1}`))
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, "status", &out))
	assert.Contains(t, out.String(), `"IP Address": "10.0.0.9"`)
}

func TestRunStop(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("All containers stopped successfully."))
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, "stop", &out))
	assert.Equal(t, "All containers stopped successfully.\n", out.String())
}

func TestCommandContextWithoutTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("All containers stopped successfully."))
	})

	ctx, cancel := commandContext(0, 3)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	var out bytes.Buffer
	require.NoError(t, run(ctx, c, "stop", &out))
	assert.Equal(t, "All containers stopped successfully.\n", out.String())
}

func TestCommandContextDeadline(t *testing.T) {
	ctx, cancel := commandContext(time.Second, -5)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 200*time.Millisecond)
	assert.NoError(t, ctx.Err())

	ctx, cancel = commandContext(time.Second, 2)
	defer cancel()
	deadline, ok = ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(3*time.Second), deadline, 200*time.Millisecond)
}

func TestRunUnknownCommand(t *testing.T) {
	c := client.New("http://127.0.0.1:1", client.DefaultOptions())

	err := run(context.Background(), c, "restart", &bytes.Buffer{})
	assert.EqualError(t, err, `unknown command "restart"`)
}
