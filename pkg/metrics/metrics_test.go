package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
	assert.NotNil(t, ClonesTotal)

	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit"))
	CacheLookupsTotal.WithLabelValues("hit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit")))
}
