package poller

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/oltwatch/oltwatch/internal/domain"
)

// ErrWalkMismatch the three discovery walks enumerated different subscriber
// counts, so positional merging would misattribute data.
var ErrWalkMismatch = errors.New("discovery walks returned mismatched lengths")

// DiscoverDevice walks the description, last-online and serial subtrees of
// one device and merges them positionally into discovery records. The walks
// are expected to enumerate the same ONU index space 1:1; a length mismatch
// is reported as ErrWalkMismatch and no records are emitted. A transport
// error aborts the device's discovery.
func (e *Engine) DiscoverDevice(ctx context.Context, sess Session, node *domain.OltNode, profile *domain.NodeProfile) ([]DiscoveryRecord, error) {
	var descs, lastOn, serials []WalkEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		descs, err = sess.Walk(gctx, profile.OidOnuDescription)
		return err
	})
	g.Go(func() error {
		var err error
		lastOn, err = sess.Walk(gctx, profile.OidOnuLastOnline)
		return err
	})
	g.Go(func() error {
		var err error
		serials, err = sess.Walk(gctx, profile.OidOnuSerial)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discovery %s: %w", node.Ipaddr, err)
	}

	if len(descs) != len(lastOn) || len(descs) != len(serials) {
		return nil, fmt.Errorf("%w: %s description=%d last_online=%d serial=%d",
			ErrWalkMismatch, node.Ipaddr, len(descs), len(lastOn), len(serials))
	}

	records := make([]DiscoveryRecord, 0, len(descs))
	for i := range descs {
		records = append(records, DiscoveryRecord{
			Description:   descs[i].Value,
			LastOnlineRaw: lastOn[i].Value,
			LastOnline:    ParseDeviceTime(lastOn[i].Value),
			SerialRaw:     serials[i].Value,
			Serial:        NormalizeSerial(serials[i].Value),
			SerialOid:     serials[i].Oid,
		})
	}
	return records, nil
}
