package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/domain"
)

const defaultMaxWorkers = 50

// Service drives poll and discovery cycles across the inventory. Devices are
// independent: a failure inside one device's pipeline never affects another.
type Service struct {
	cfg       config.PollerConfig
	engine    *Engine
	inventory Inventory
	prober    Prober
	transport Transport
	telemetry TelemetrySink
	discovery DiscoverySink
	status    StatusSink
}

func NewService(
	cfg config.PollerConfig,
	inventory Inventory,
	prober Prober,
	transport Transport,
	telemetry TelemetrySink,
	discovery DiscoverySink,
	status StatusSink,
) *Service {
	return &Service{
		cfg:       cfg,
		engine:    NewEngine(cfg),
		inventory: inventory,
		prober:    prober,
		transport: transport,
		telemetry: telemetry,
		discovery: discovery,
		status:    status,
	}
}

// RunPoll polls telemetry for every matching node and blocks until all node
// tasks have finished or ctx is cancelled.
func (s *Service) RunPoll(ctx context.Context, filter InventoryFilter) error {
	return s.run(ctx, "poll", filter, s.pollNode)
}

// RunDiscovery runs ONU discovery for every matching node, then promotes the
// staged rows into the primary table.
func (s *Service) RunDiscovery(ctx context.Context, filter InventoryFilter) error {
	if err := s.run(ctx, "discovery", filter, s.discoverNode); err != nil {
		return err
	}
	if err := s.discovery.PromoteDiscovery(ctx); err != nil {
		zap.L().Error("discovery promotion failed", zap.Error(err))
	}
	return nil
}

// run fans node tasks out on a bounded pool and joins before returning.
func (s *Service) run(ctx context.Context, mode string, filter InventoryFilter, task func(context.Context, *domain.OltNode)) error {
	started := time.Now()
	nodes, err := s.inventory.ListNodes(ctx, filter)
	if err != nil {
		return fmt.Errorf("list nodes: %w", err)
	}
	zap.L().Info("cycle started",
		zap.String("mode", mode),
		zap.Int("nodes", len(nodes)))

	workers := s.cfg.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, node := range nodes {
		node := node
		if ctx.Err() != nil {
			break
		}
		if !s.prober.IsReachable(node) {
			zap.L().Warn("node not reachable, skipped",
				zap.String("name", node.Name),
				zap.String("ip", node.Ipaddr))
			if err := s.status.RecordUnreachable(ctx, node); err != nil {
				zap.L().Error("record unreachable failed", zap.String("ip", node.Ipaddr), zap.Error(err))
			}
			continue
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			task(ctx, node)
		}); err != nil {
			wg.Done()
			zap.L().Error("submit node task failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		}
	}
	wg.Wait()

	zap.L().Info("cycle finished",
		zap.String("mode", mode),
		zap.Int("nodes", len(nodes)),
		zap.Duration("elapsed", time.Since(started)))
	return ctx.Err()
}

func (s *Service) pollNode(ctx context.Context, node *domain.OltNode) {
	queries, err := s.inventory.MetricQueries(ctx, node.ID)
	if err != nil {
		zap.L().Error("load metric queries failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		return
	}
	if len(queries) == 0 {
		zap.L().Debug("node has no metric queries", zap.String("ip", node.Ipaddr))
		return
	}

	sess, err := s.transport.Open(node)
	if err != nil {
		zap.L().Error("session open failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		return
	}
	defer sess.Close()

	samples, err := s.engine.PollDevice(ctx, sess, node, queries)
	if err != nil {
		// cancellation: persist whatever was merged before unwinding
		zap.L().Warn("poll interrupted", zap.String("ip", node.Ipaddr), zap.Error(err))
	}
	if len(samples) == 0 {
		return
	}
	if err := s.telemetry.SaveTelemetry(ctx, node, samples); err != nil {
		zap.L().Error("save telemetry failed",
			zap.String("ip", node.Ipaddr),
			zap.Int("samples", len(samples)),
			zap.Error(err))
		return
	}
	zap.L().Info("telemetry saved",
		zap.String("ip", node.Ipaddr),
		zap.Int("samples", len(samples)))
}

func (s *Service) discoverNode(ctx context.Context, node *domain.OltNode) {
	profile, err := s.inventory.Profile(ctx, node.VendorClass)
	if err != nil {
		zap.L().Error("load node profile failed",
			zap.String("ip", node.Ipaddr),
			zap.Int("vendor_class", node.VendorClass),
			zap.Error(err))
		return
	}

	sess, err := s.transport.Open(node)
	if err != nil {
		zap.L().Error("session open failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		return
	}
	defer sess.Close()

	records, err := s.engine.DiscoverDevice(ctx, sess, node, profile)
	if err != nil {
		zap.L().Error("discovery failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		return
	}
	if len(records) == 0 {
		zap.L().Info("discovery returned no records", zap.String("ip", node.Ipaddr))
		return
	}
	if err := s.discovery.SaveDiscovery(ctx, node, records); err != nil {
		zap.L().Error("save discovery failed",
			zap.String("ip", node.Ipaddr),
			zap.Int("records", len(records)),
			zap.Error(err))
		return
	}
	zap.L().Info("discovery saved",
		zap.String("ip", node.Ipaddr),
		zap.Int("records", len(records)))
}
