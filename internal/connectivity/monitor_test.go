package connectivity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmazzini/ecoponto/internal/connectivity"
)

func TestMonitor_StartsOnline(t *testing.T) {
	m := connectivity.NewMonitor()
	assert.True(t, m.Online(), "monitor must fail safe to online")
}

func TestMonitor_NotifiesOncePerTransition(t *testing.T) {
	m := connectivity.NewMonitor()

	var events []bool
	m.OnChange(func(online bool) {
		events = append(events, online)
	})

	m.SetOnline(true)  // already online: no event
	m.SetOnline(false) // transition
	m.SetOnline(false) // repeated signal: no event
	m.SetOnline(false) // repeated signal: no event
	m.SetOnline(true)  // transition

	assert.Equal(t, []bool{false, true}, events)
}

func TestMonitor_MultipleSubscribers(t *testing.T) {
	m := connectivity.NewMonitor()

	var first, second int
	m.OnChange(func(bool) { first++ })
	m.OnChange(func(bool) { second++ })

	m.SetOnline(false)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestMonitor_SubscriberMayReadStateBack(t *testing.T) {
	m := connectivity.NewMonitor()

	var observed bool
	m.OnChange(func(online bool) {
		// Callbacks run outside the lock; this must not deadlock.
		observed = m.Online()
	})

	m.SetOnline(false)
	assert.False(t, observed)
}

func TestHTTPProbe(t *testing.T) {
	// Any completed response proves reachability, even an error status.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	probe := connectivity.HTTPProbe(srv.Client(), srv.URL, time.Second)
	assert.True(t, probe(context.Background()))

	srv.Close()
	assert.False(t, probe(context.Background()))
}

func TestMonitor_RunDrivesTransitions(t *testing.T) {
	online := make(chan bool, 1)
	online <- false

	probe := func(ctx context.Context) bool {
		select {
		case v := <-online:
			return v
		default:
			return false
		}
	}

	m := connectivity.NewMonitor(connectivity.WithProbe(probe))

	transitioned := make(chan bool, 1)
	m.OnChange(func(state bool) {
		transitioned <- state
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, 10*time.Millisecond)

	select {
	case state := <-transitioned:
		require.False(t, state)
	case <-time.After(2 * time.Second):
		t.Fatal("probe never drove a transition")
	}
}
