package connectivity_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"courieragent/internal/connectivity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reachable(_ context.Context) error   { return nil }
func unreachable(_ context.Context) error { return errors.New("no route to host") }

func newMonitor(t *testing.T, link, internet connectivity.ProbeFunc) *connectivity.Monitor {
	t.Helper()

	m := connectivity.NewMonitor(slog.Default(),
		connectivity.WithSchedule("@every 1h"),
		connectivity.WithLinkProbe(link),
		connectivity.WithInternetProbe(internet),
	)
	require.NoError(t, m.Start())
	t.Cleanup(m.Stop)
	return m
}

func TestMonitor_Classification(t *testing.T) {
	t.Run("reports connected when both probes succeed", func(t *testing.T) {
		m := newMonitor(t, reachable, reachable)

		assert.Equal(t, connectivity.Connected, m.Current())
	})

	t.Run("reports disconnected when the link probe fails", func(t *testing.T) {
		m := newMonitor(t, unreachable, reachable)

		assert.Equal(t, connectivity.Disconnected, m.Current())
	})

	t.Run("reports captive portal when only the internet probe fails", func(t *testing.T) {
		m := newMonitor(t, reachable, unreachable)

		assert.Equal(t, connectivity.ConnectedNoInternet, m.Current())
		assert.True(t, m.Current().Online())
	})

	t.Run("unknown before start", func(t *testing.T) {
		m := connectivity.NewMonitor(slog.Default())

		assert.Equal(t, connectivity.StatusUnknown, m.Current())
		assert.False(t, m.Current().Online())
	})
}

func TestMonitor_Subscribe(t *testing.T) {
	t.Run("delivers the change to subscribers", func(t *testing.T) {
		m := connectivity.NewMonitor(slog.Default(),
			connectivity.WithSchedule("@every 1h"),
			connectivity.WithLinkProbe(reachable),
			connectivity.WithInternetProbe(reachable),
		)
		ch, unsubscribe := m.Subscribe()
		defer unsubscribe()

		require.NoError(t, m.Start())
		defer m.Stop()

		select {
		case status := <-ch:
			assert.Equal(t, connectivity.Connected, status)
		case <-time.After(time.Second):
			t.Fatal("no connectivity change delivered")
		}
	})

	t.Run("stops delivery after unsubscribe", func(t *testing.T) {
		m := connectivity.NewMonitor(slog.Default(),
			connectivity.WithSchedule("@every 1h"),
			connectivity.WithLinkProbe(reachable),
			connectivity.WithInternetProbe(reachable),
		)
		ch, unsubscribe := m.Subscribe()

		unsubscribe()
		unsubscribe()

		require.NoError(t, m.Start())
		defer m.Stop()

		status, open := <-ch
		assert.False(t, open)
		assert.Equal(t, connectivity.StatusUnknown, status)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "connected", connectivity.Connected.String())
	assert.Equal(t, "connected-no-internet", connectivity.ConnectedNoInternet.String())
	assert.Equal(t, "disconnected", connectivity.Disconnected.String())
	assert.Equal(t, "unknown", connectivity.StatusUnknown.String())
}
