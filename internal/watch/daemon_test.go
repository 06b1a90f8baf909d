package watch

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/inletra/docsite/internal/config"
)

func TestNew_RequiresWatchConfig(t *testing.T) {
	_, err := New(nil, "docsite.yaml")
	require.Error(t, err)

	_, err = New(&config.Config{}, "docsite.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "watch configuration")
}

func TestNew_RejectsInvalidDurations(t *testing.T) {
	configPath, _ := writeWatchSite(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	cfg.Watch.Debounce = "soon"
	_, err = New(cfg, configPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "watch.debounce")

	cfg.Watch.Debounce = "2s"
	cfg.Watch.LinkRecheckInterval = "often"
	_, err = New(cfg, configPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "watch.link_recheck_interval")
}

func TestDaemon_StopBeforeStartIsNoop(t *testing.T) {
	d := newTestDaemon(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, d.Stop(ctx))
	require.Equal(t, StatusStopped, d.GetStatus())
}

// Full lifecycle: start, serve the startup check and emit pair over HTTP,
// shut down on context cancellation without leaking goroutines.
func TestDaemon_LifecycleServesStatusAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	configPath, _ := writeWatchSite(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	d, err := New(cfg, configPath)
	require.NoError(t, err)
	require.Equal(t, StatusStopped, d.GetStatus())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startDone := make(chan error, 1)
	go func() { startDone <- d.Start(ctx) }()

	require.Eventually(t, func() bool {
		return d.GetStatus() == StatusRunning
	}, 5*time.Second, 20*time.Millisecond)
	require.NotEmpty(t, d.HTTPAddr())

	err = d.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not in stopped state")

	// The startup pair lands in history once both jobs complete.
	require.Eventually(t, func() bool {
		return len(d.queue.History()) == 2
	}, 10*time.Second, 50*time.Millisecond)

	client := &http.Client{Transport: &http.Transport{}}
	defer client.CloseIdleConnections()

	resp, err := client.Get("http://" + d.HTTPAddr() + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health healthzResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "ok", health.Status)
	require.Equal(t, StatusRunning, health.Daemon)

	resp, err = client.Get("http://" + d.HTTPAddr() + "/api/status")
	require.NoError(t, err)

	var status StatusData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.NoError(t, resp.Body.Close())
	require.Len(t, status.Queue.History, 2)
	require.Len(t, status.RecentRuns, 2)
	require.NotNil(t, status.LastCheck)
	require.Equal(t, 1, status.LastCheck.PagesTotal)

	cancel()
	require.NoError(t, <-startDone)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, d.Stop(stopCtx))
	require.Equal(t, StatusStopped, d.GetStatus())
}
