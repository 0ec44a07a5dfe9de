package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.ItemWritten("range")
	r.ItemWritten("range")
	r.ItemWritten("next")
	r.TokenSkipped(SkipUnresolved)
	r.HoverLookup(HoverFound)
	r.HoverLookup(HoverFailed)
	r.ReorderGap()
	r.DocumentEmitted(5 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.items.WithLabelValues("range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.items.WithLabelValues("next")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.skips.WithLabelValues(SkipUnresolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.hovers.WithLabelValues(HoverFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gaps))
	assert.Equal(t, 1, testutil.CollectAndCount(r.documentSeconds))
}

func TestReorderQueueDepthKeepsPeak(t *testing.T) {
	r := New()

	r.ReorderQueueDepth(3)
	r.ReorderQueueDepth(7)
	r.ReorderQueueDepth(2)

	assert.Equal(t, 7.0, testutil.ToFloat64(r.reorderPeak))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ItemWritten("range")
		r.TokenSkipped(SkipNotInSource)
		r.HoverLookup(HoverEmpty)
		r.ReorderGap()
		r.ReorderQueueDepth(4)
		r.DocumentEmitted(time.Second)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile("/nonexistent/metrics.prom"))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ItemWritten("metaData")

	path := filepath.Join(t.TempDir(), "lsif-flow.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lsif_flow_items_total{label="metaData"} 1`)
}
