package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/service/lifecycle"
	"parcelbee-client/internal/session"
)

func TestWatchRunner_Run_MapsCancellation(t *testing.T) {
	t.Parallel()

	r := &WatchRunner{runFn: func(*dig.Container) error { return context.Canceled }}
	require.NoError(t, r.Run(dig.New()))

	sentinel := errors.New("boom")
	r = &WatchRunner{runFn: func(*dig.Container) error { return sentinel }}
	require.ErrorIs(t, r.Run(dig.New()), sentinel)
}

func TestWatchRunner_PublishesViewsUntilCancelled(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := buildContainer(t, ctx, testConfig(t, fb.srv.URL+"/api"), &syncBuffer{})
	login(t, c, "customer")

	var views atomic.Int64
	var last atomic.Value
	runner := NewWatchRunner(func(v lifecycle.View) {
		last.Store(v)
		views.Add(1)
	})

	done := make(chan error, 1)
	go func() { done <- runner.Run(c) }()

	requireEventually(t, 2*time.Second, 5*time.Millisecond, func() bool { return views.Load() >= 2 })
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}

	v := last.Load().(lifecycle.View)
	require.Len(t, v.Active, 1)
	require.Len(t, v.Past, 1)
}

func TestWatchRunner_StopsWhenSessionExpires(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.status.Store(http.StatusUnauthorized)

	out := &syncBuffer{}
	c := buildContainer(t, context.Background(), testConfig(t, fb.srv.URL+"/api"), out)
	login(t, c, "partner")

	done := make(chan error, 1)
	go func() { done <- NewWatchRunner(nil).Run(c) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, apperr.ErrSessionExpired)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after 401")
	}
	require.Contains(t, out.String(), "-> login")
	require.NoError(t, c.Invoke(func(s *session.Store) {
		require.False(t, s.IsAuthenticated())
	}))
}

func TestWatchRunner_ServesConsole(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t, fb.srv.URL+"/api")
	cfg.ListenAddr = "127.0.0.1:0"
	c := buildContainer(t, ctx, cfg, &syncBuffer{})
	login(t, c, "customer")

	addrCh := make(chan string, 1)
	runner := NewWatchRunner(nil).OnListen(func(addr string) { addrCh <- addr })

	done := make(chan error, 1)
	go func() { done <- runner.Run(c) }()

	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("console did not start")
	}

	resp, err := http.Get("http://" + addr + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	requireEventually(t, 2*time.Second, 5*time.Millisecond, func() bool { return fb.listCalls.Load() >= 1 })
	resp, err = http.Get("http://" + addr + "/deliveries")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"role":"customer"`)

	requireEventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(b), "parcelbee_poll_refresh_total")
	})

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
