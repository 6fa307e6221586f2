package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.Updates.WithLabelValues("message").Inc()
	c.Updates.WithLabelValues("message").Inc()
	c.Transitions.WithLabelValues("await_guide", "await_section").Inc()
	c.Duplicates.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Updates.WithLabelValues("message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Transitions.WithLabelValues("await_guide", "await_section")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Duplicates))

	n, err := testutil.GatherAndCount(reg, "museumbot_updates_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
