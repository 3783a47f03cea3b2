package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.RecordEvent("counted")
	r.RecordEvent("counted")
	r.RecordEvent("bad_country")
	r.RecordParse("multiplayer")
	r.RecordPoll()
	r.RecordPoll()
	r.RecordPoll()
	r.RecordCallback()
	r.RecordWatchError()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.events.WithLabelValues("counted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.events.WithLabelValues("bad_country")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.parses.WithLabelValues("multiplayer")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.polls))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.watchErrors))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.RecordEvent("counted")
		r.RecordParse("table")
		r.RecordPoll()
		r.RecordCallback()
		r.RecordWatchError()
	})
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.RecordCallback()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "debrief_watch_callbacks_total 1")
}

func TestDefault_Singleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
