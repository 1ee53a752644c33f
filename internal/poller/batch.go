package poller

// PlanBatches splits an ordered query list into contiguous, order-preserving
// batches of at most size queries. Batch i covers indices
// [i*size, min((i+1)*size, len)); nothing is reordered, dropped or
// duplicated. A non-positive size degenerates to a single batch, as does a
// size covering the whole list.
func PlanBatches(queries []MetricQuery, size int) [][]MetricQuery {
	if len(queries) == 0 {
		return nil
	}
	if size <= 0 || size >= len(queries) {
		return [][]MetricQuery{queries}
	}
	batches := make([][]MetricQuery, 0, (len(queries)+size-1)/size)
	for start := 0; start < len(queries); start += size {
		end := start + size
		if end > len(queries) {
			end = len(queries)
		}
		batches = append(batches, queries[start:end])
	}
	return batches
}
