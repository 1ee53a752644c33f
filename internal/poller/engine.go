package poller

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/domain"
)

// Engine decodes telemetry and discovery data for a single device. It is
// stateless; one Engine serves all devices.
type Engine struct {
	batchSize   int
	nodeWorkers int
}

func NewEngine(cfg config.PollerConfig) *Engine {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 25
	}
	nodeWorkers := cfg.NodeWorkers
	if nodeWorkers <= 0 {
		nodeWorkers = 1
	}
	return &Engine{batchSize: batchSize, nodeWorkers: nodeWorkers}
}

// PollDevice runs the device's query set in bounded concurrent batches and
// returns one decoded sample per query, positionally aligned with the input
// list. Batch failures are recorded per metric family and never abort the
// device; the only error returned is context cancellation.
func (e *Engine) PollDevice(ctx context.Context, sess Session, node *domain.OltNode, queries []MetricQuery) ([]TelemetrySample, error) {
	profile := ProfileForClass(node.VendorClass)

	samples := make([]TelemetrySample, len(queries))
	for i := range queries {
		samples[i].RecordKey = queries[i].RecordKey
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.nodeWorkers)

	offset := 0
	for _, batch := range PlanBatches(queries, e.batchSize) {
		batch := batch
		// disjoint result slots per batch, written without locking
		out := samples[offset : offset+len(batch)]
		offset += len(batch)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.pollBatch(gctx, sess, node, profile, batch, out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return samples, err
	}
	return samples, nil
}

// pollBatch issues the batch's correlated metric-family GETs in parallel and
// merges the responses positionally into out. The rx-power family is
// authoritative: without it the batch is skipped. Secondary families degrade
// to zero values on failure.
func (e *Engine) pollBatch(ctx context.Context, sess Session, node *domain.OltNode, profile VendorProfile, batch []MetricQuery, out []TelemetrySample) {
	rxOids := make([]string, len(batch))
	distOids := make([]string, len(batch))
	oltOids := make([]string, len(batch))
	tempOids := make([]string, len(batch))
	for i, q := range batch {
		rxOids[i] = q.OidRxPower
		distOids[i] = q.OidDistance
		oltOids[i] = q.OidOltRxPower
		tempOids[i] = q.OidTemperature
	}

	var (
		wg      sync.WaitGroup
		rxRaw   []string
		rxErr   error
		distRaw []string
		oltRaw  []string
		tempRaw []string
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rxRaw, rxErr = sess.Get(ctx, rxOids)
	}()
	go func() {
		defer wg.Done()
		distRaw = e.secondaryGet(ctx, sess, node, "distance", distOids)
	}()
	go func() {
		defer wg.Done()
		oltRaw = e.secondaryGet(ctx, sess, node, "olt-rx-power", oltOids)
	}()
	if profile.HasTemperature() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tempRaw = e.secondaryGet(ctx, sess, node, "temperature", tempOids)
		}()
	}
	wg.Wait()

	if rxErr != nil {
		zap.L().Warn("no rx-power response, batch skipped",
			zap.String("ip", node.Ipaddr),
			zap.Int("batch_size", len(batch)),
			zap.Error(rxErr))
		return
	}
	if len(rxRaw) != len(batch) {
		zap.L().Error("rx-power response misaligned, batch skipped",
			zap.String("ip", node.Ipaddr),
			zap.Int("requested", len(batch)),
			zap.Int("got", len(rxRaw)))
		return
	}

	for i := range batch {
		out[i].RxPower = profile.DecodeRxPower(rxRaw[i])
		out[i].Distance = DecodeDistance(valueAt(distRaw, i))
		out[i].OltRxPower = profile.DecodeOltRxPower(valueAt(oltRaw, i))
		if profile.HasTemperature() {
			out[i].Temperature = profile.DecodeTemperature(valueAt(tempRaw, i))
		}
	}
}

// secondaryGet fetches a non-authoritative metric family. Failures are
// logged and yield nil so the family decodes to zero values.
func (e *Engine) secondaryGet(ctx context.Context, sess Session, node *domain.OltNode, family string, oids []string) []string {
	values, err := sess.Get(ctx, oids)
	if err != nil {
		zap.L().Warn("metric family request failed",
			zap.String("ip", node.Ipaddr),
			zap.String("family", family),
			zap.Error(err))
		return nil
	}
	if len(values) != len(oids) {
		zap.L().Error("metric family response misaligned",
			zap.String("ip", node.Ipaddr),
			zap.String("family", family),
			zap.Int("requested", len(oids)),
			zap.Int("got", len(values)))
		return nil
	}
	return values
}

func valueAt(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return values[i]
}
