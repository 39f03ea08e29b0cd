package database

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	stats redis.PoolStats
}

func (f *fakePool) PoolStats() *redis.PoolStats { return &f.stats }

func TestPoolStatsCollector_Describe(t *testing.T) {
	c := NewPoolStatsCollector(&fakePool{}, "storefront")

	ch := make(chan *prometheus.Desc, 10)
	c.Describe(ch)
	close(ch)

	assert.Len(t, ch, 6)
}

func TestPoolStatsCollector_Collect(t *testing.T) {
	reg := prometheus.NewRegistry()
	pool := &fakePool{stats: redis.PoolStats{Hits: 7, Misses: 2, TotalConns: 3, IdleConns: 1}}
	require.NoError(t, RegisterPoolMetrics(reg, pool, "storefront"))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 6)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}

	hits := byName["redis_pool_hits_total"]
	require.NotNil(t, hits)
	assert.Equal(t, float64(7), hits.GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, "storefront", hits.GetMetric()[0].GetLabel()[0].GetValue())

	total := byName["redis_pool_total_connections"]
	require.NotNil(t, total)
	assert.Equal(t, float64(3), total.GetMetric()[0].GetGauge().GetValue())
}

func TestRegisterPoolMetrics_Duplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterPoolMetrics(reg, &fakePool{}, "storefront"))
	assert.Error(t, RegisterPoolMetrics(reg, &fakePool{}, "storefront"))
}
