package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStoreWrite("create", nil)
	c.RecordStoreWrite("create", nil)
	c.RecordStoreWrite("delete", errors.New("boom"))
	c.RecordSnapshot(3)
	c.RecordAuth("sign_in", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.storeWrites.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeWrites.WithLabelValues("delete", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshots))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authAttempts.WithLabelValues("sign_in", "ok")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSnapshot(1)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "fcm_snapshots_pushed_total 1")
}
