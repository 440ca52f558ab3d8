package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))

	return m.GetCounter().GetValue()
}

func TestCounters(t *testing.T) {
	before := value(t, loginAttempts.WithLabelValues("password", "success"))
	LoginAttempt("password", "success")
	assert.InDelta(t, before+1, value(t, loginAttempts.WithLabelValues("password", "success")), 0)

	before = value(t, usersCreated.WithLabelValues("linkedin"))
	UserCreated("linkedin")
	assert.InDelta(t, before+1, value(t, usersCreated.WithLabelValues("linkedin")), 0)

	before = value(t, reconcileConflicts)
	ReconcileConflict()
	assert.InDelta(t, before+1, value(t, reconcileConflicts), 0)
}
