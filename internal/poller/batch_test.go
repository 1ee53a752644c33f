package poller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeQueries(n int) []MetricQuery {
	queries := make([]MetricQuery, n)
	for i := range queries {
		queries[i] = MetricQuery{RecordKey: int64(i + 1)}
	}
	return queries
}

func TestPlanBatchesSplitsByPosition(t *testing.T) {
	queries := makeQueries(10)
	batches := PlanBatches(queries, 3)

	require.Len(t, batches, 4)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 3)
	assert.Len(t, batches[2], 3)
	assert.Len(t, batches[3], 1)

	// concatenation equals the original list exactly
	var flat []MetricQuery
	for _, b := range batches {
		flat = append(flat, b...)
	}
	assert.Equal(t, queries, flat)
}

func TestPlanBatchesExactMultiple(t *testing.T) {
	batches := PlanBatches(makeQueries(9), 3)
	require.Len(t, batches, 3)
	for _, b := range batches {
		assert.Len(t, b, 3)
	}
}

func TestPlanBatchesDegeneratesToSingleBatch(t *testing.T) {
	queries := makeQueries(4)

	batches := PlanBatches(queries, 10)
	require.Len(t, batches, 1)
	assert.Equal(t, queries, batches[0])

	batches = PlanBatches(queries, 4)
	require.Len(t, batches, 1)
}

func TestPlanBatchesNonPositiveSize(t *testing.T) {
	queries := makeQueries(5)
	batches := PlanBatches(queries, 0)
	require.Len(t, batches, 1)
	assert.Equal(t, queries, batches[0])
}

func TestPlanBatchesEmptyInput(t *testing.T) {
	assert.Nil(t, PlanBatches(nil, 5))
	assert.Nil(t, PlanBatches([]MetricQuery{}, 5))
}
