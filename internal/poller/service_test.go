package poller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/domain"
)

type fakeInventory struct {
	nodes    []*domain.OltNode
	profiles map[int]*domain.NodeProfile
	queries  map[int64][]MetricQuery
}

func (f *fakeInventory) ListNodes(ctx context.Context, filter InventoryFilter) ([]*domain.OltNode, error) {
	if filter.NodeID == 0 {
		return f.nodes, nil
	}
	var matched []*domain.OltNode
	for _, n := range f.nodes {
		if n.ID == filter.NodeID {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (f *fakeInventory) Profile(ctx context.Context, vendorClass int) (*domain.NodeProfile, error) {
	p, ok := f.profiles[vendorClass]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}

func (f *fakeInventory) MetricQueries(ctx context.Context, nodeID int64) ([]MetricQuery, error) {
	return f.queries[nodeID], nil
}

type fakeProber struct {
	mu          sync.Mutex
	unreachable map[string]bool
	probed      []string
}

func (f *fakeProber) IsReachable(node *domain.OltNode) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, node.Ipaddr)
	return !f.unreachable[node.Ipaddr]
}

type fakeTransport struct {
	mu       sync.Mutex
	sessions map[string]*scriptedSession
	openErr  map[string]error
	opened   []string
}

func (f *fakeTransport) Open(node *domain.OltNode) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, node.Ipaddr)
	if err := f.openErr[node.Ipaddr]; err != nil {
		return nil, err
	}
	return f.sessions[node.Ipaddr], nil
}

type fakeSinks struct {
	mu          sync.Mutex
	telemetry   map[int64][]TelemetrySample
	discovered  map[int64][]DiscoveryRecord
	unreachable []int64
	promoted    int
}

func newFakeSinks() *fakeSinks {
	return &fakeSinks{
		telemetry:  make(map[int64][]TelemetrySample),
		discovered: make(map[int64][]DiscoveryRecord),
	}
}

func (f *fakeSinks) SaveTelemetry(ctx context.Context, node *domain.OltNode, samples []TelemetrySample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.telemetry[node.ID] = samples
	return nil
}

func (f *fakeSinks) SaveDiscovery(ctx context.Context, node *domain.OltNode, records []DiscoveryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discovered[node.ID] = records
	return nil
}

func (f *fakeSinks) RecordUnresolved(ctx context.Context, oid string, node *domain.OltNode) error {
	return nil
}

func (f *fakeSinks) PromoteDiscovery(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promoted++
	return nil
}

func (f *fakeSinks) RecordUnreachable(ctx context.Context, node *domain.OltNode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreachable = append(f.unreachable, node.ID)
	return nil
}

func serviceUnderTest(inv *fakeInventory, prober *fakeProber, transport *fakeTransport, sinks *fakeSinks) *Service {
	cfg := config.PollerConfig{MaxWorkers: 4, NodeWorkers: 2, BatchSize: 2}
	return NewService(cfg, inv, prober, transport, sinks, sinks, sinks)
}

func TestRunPollDeviceIsolation(t *testing.T) {
	nodeA := &domain.OltNode{ID: 1, Name: "olt-a", Ipaddr: "10.0.0.1", VendorClass: 17}
	nodeB := &domain.OltNode{ID: 2, Name: "olt-b", Ipaddr: "10.0.0.2", VendorClass: 17}

	inv := &fakeInventory{
		nodes: []*domain.OltNode{nodeA, nodeB},
		queries: map[int64][]MetricQuery{
			1: metricQueries(4),
			2: metricQueries(4),
		},
	}
	failing := &scriptedSession{onGet: func(oids []string) ([]string, error) {
		return nil, errors.New("request timeout")
	}}
	healthy := &scriptedSession{onGet: indexedGet}
	transport := &fakeTransport{sessions: map[string]*scriptedSession{
		"10.0.0.1": failing,
		"10.0.0.2": healthy,
	}}
	sinks := newFakeSinks()
	svc := serviceUnderTest(inv, &fakeProber{}, transport, sinks)

	err := svc.RunPoll(context.Background(), InventoryFilter{})
	require.NoError(t, err)

	// node B's results are intact despite node A failing every request
	samples := sinks.telemetry[2]
	require.Len(t, samples, 4)
	assert.InDelta(t, float64(1000)*0.002-30, samples[1].RxPower, 1e-9)

	// node A's batches all failed, rows persist with zero readings
	require.Len(t, sinks.telemetry[1], 4)
	assert.Equal(t, 0.0, sinks.telemetry[1][0].RxPower)

	// sessions were released either way
	assert.True(t, failing.closed)
	assert.True(t, healthy.closed)
}

func TestRunPollSkipsUnreachableNode(t *testing.T) {
	nodeA := &domain.OltNode{ID: 1, Name: "olt-a", Ipaddr: "10.0.0.1", VendorClass: 17}
	nodeB := &domain.OltNode{ID: 2, Name: "olt-b", Ipaddr: "10.0.0.2", VendorClass: 17}

	inv := &fakeInventory{
		nodes:   []*domain.OltNode{nodeA, nodeB},
		queries: map[int64][]MetricQuery{2: metricQueries(2)},
	}
	transport := &fakeTransport{sessions: map[string]*scriptedSession{
		"10.0.0.2": {onGet: indexedGet},
	}}
	sinks := newFakeSinks()
	prober := &fakeProber{unreachable: map[string]bool{"10.0.0.1": true}}
	svc := serviceUnderTest(inv, prober, transport, sinks)

	err := svc.RunPoll(context.Background(), InventoryFilter{})
	require.NoError(t, err)

	// no SNMP traffic toward the unreachable node
	assert.NotContains(t, transport.opened, "10.0.0.1")
	assert.Equal(t, []int64{1}, sinks.unreachable)
	assert.Len(t, sinks.telemetry[2], 2)
}

func TestRunPollSingleNodeFilter(t *testing.T) {
	nodeA := &domain.OltNode{ID: 1, Name: "olt-a", Ipaddr: "10.0.0.1", VendorClass: 17}
	nodeB := &domain.OltNode{ID: 2, Name: "olt-b", Ipaddr: "10.0.0.2", VendorClass: 17}

	inv := &fakeInventory{
		nodes: []*domain.OltNode{nodeA, nodeB},
		queries: map[int64][]MetricQuery{
			1: metricQueries(2),
			2: metricQueries(2),
		},
	}
	transport := &fakeTransport{sessions: map[string]*scriptedSession{
		"10.0.0.1": {onGet: indexedGet},
		"10.0.0.2": {onGet: indexedGet},
	}}
	sinks := newFakeSinks()
	svc := serviceUnderTest(inv, &fakeProber{}, transport, sinks)

	err := svc.RunPoll(context.Background(), InventoryFilter{NodeID: 2})
	require.NoError(t, err)

	// only the targeted node sees any traffic
	assert.Equal(t, []string{"10.0.0.2"}, transport.opened)
	_, saved := sinks.telemetry[1]
	assert.False(t, saved)
	assert.Len(t, sinks.telemetry[2], 2)
}

func TestRunPollSessionOpenFailureIsContained(t *testing.T) {
	nodeA := &domain.OltNode{ID: 1, Name: "olt-a", Ipaddr: "10.0.0.1", VendorClass: 9}
	nodeB := &domain.OltNode{ID: 2, Name: "olt-b", Ipaddr: "10.0.0.2", VendorClass: 9}

	inv := &fakeInventory{
		nodes: []*domain.OltNode{nodeA, nodeB},
		queries: map[int64][]MetricQuery{
			1: metricQueries(2),
			2: metricQueries(2),
		},
	}
	transport := &fakeTransport{
		openErr:  map[string]error{"10.0.0.1": errors.New("connect: refused")},
		sessions: map[string]*scriptedSession{"10.0.0.2": {onGet: indexedGet}},
	}
	sinks := newFakeSinks()
	svc := serviceUnderTest(inv, &fakeProber{}, transport, sinks)

	err := svc.RunPoll(context.Background(), InventoryFilter{})
	require.NoError(t, err)

	_, saved := sinks.telemetry[1]
	assert.False(t, saved)
	assert.Len(t, sinks.telemetry[2], 2)
}

func TestRunDiscoverySavesAndPromotes(t *testing.T) {
	node := &domain.OltNode{ID: 1, Name: "olt-a", Ipaddr: "10.0.0.1", VendorClass: 17}

	inv := &fakeInventory{
		nodes:    []*domain.OltNode{node},
		profiles: map[int]*domain.NodeProfile{17: testProfile()},
	}
	sess := &scriptedSession{onWalk: func(root string) ([]WalkEntry, error) {
		return walkEntries(root, "5a:54:45:47:c0:a8:01:02"), nil
	}}
	transport := &fakeTransport{sessions: map[string]*scriptedSession{"10.0.0.1": sess}}
	sinks := newFakeSinks()
	svc := serviceUnderTest(inv, &fakeProber{}, transport, sinks)

	err := svc.RunDiscovery(context.Background(), InventoryFilter{})
	require.NoError(t, err)

	require.Len(t, sinks.discovered[1], 1)
	assert.Equal(t, "ZTEGC0A80102", sinks.discovered[1][0].Serial)
	assert.Equal(t, 1, sinks.promoted)
	assert.True(t, sess.closed)
}

func TestRunDiscoveryMismatchIsContained(t *testing.T) {
	nodeA := &domain.OltNode{ID: 1, Name: "olt-a", Ipaddr: "10.0.0.1", VendorClass: 17}
	nodeB := &domain.OltNode{ID: 2, Name: "olt-b", Ipaddr: "10.0.0.2", VendorClass: 17}

	inv := &fakeInventory{
		nodes:    []*domain.OltNode{nodeA, nodeB},
		profiles: map[int]*domain.NodeProfile{17: testProfile()},
	}
	mismatched := &scriptedSession{onWalk: func(root string) ([]WalkEntry, error) {
		if root == "serial" {
			return nil, nil
		}
		return walkEntries(root, "a"), nil
	}}
	good := &scriptedSession{onWalk: func(root string) ([]WalkEntry, error) {
		return walkEntries(root, "41:42:43:44:05:06"), nil
	}}
	transport := &fakeTransport{sessions: map[string]*scriptedSession{
		"10.0.0.1": mismatched,
		"10.0.0.2": good,
	}}
	sinks := newFakeSinks()
	svc := serviceUnderTest(inv, &fakeProber{}, transport, sinks)

	err := svc.RunDiscovery(context.Background(), InventoryFilter{})
	require.NoError(t, err)

	_, saved := sinks.discovered[1]
	assert.False(t, saved)
	require.Len(t, sinks.discovered[2], 1)
	assert.Equal(t, "ABCD0506", sinks.discovered[2][0].Serial)
}
