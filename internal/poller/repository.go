package poller

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oltwatch/oltwatch/internal/domain"
)

// InventoryFilter narrows the node listing for one run.
type InventoryFilter struct {
	NodeID      int64  // 0 means all nodes
	VendorClass int    // 0 means all classes
	Region      string // "" or "all" means all regions
	Service     string // "" means all services
}

// Inventory supplies poll targets, their vendor profiles and query sets.
type Inventory interface {
	ListNodes(ctx context.Context, filter InventoryFilter) ([]*domain.OltNode, error)
	Profile(ctx context.Context, vendorClass int) (*domain.NodeProfile, error)
	MetricQueries(ctx context.Context, nodeID int64) ([]MetricQuery, error)
}

// TelemetrySink persists decoded samples, one call per device.
type TelemetrySink interface {
	SaveTelemetry(ctx context.Context, node *domain.OltNode, samples []TelemetrySample) error
}

// DiscoverySink persists discovery records. Serial OIDs with no stable
// identity mapping are surfaced through RecordUnresolved, never dropped.
type DiscoverySink interface {
	SaveDiscovery(ctx context.Context, node *domain.OltNode, records []DiscoveryRecord) error
	RecordUnresolved(ctx context.Context, oid string, node *domain.OltNode) error
	// PromoteDiscovery folds staged discovery rows into the primary ONU
	// table after a cycle completes.
	PromoteDiscovery(ctx context.Context) error
}

// StatusSink reports devices that failed the reachability gate.
type StatusSink interface {
	RecordUnreachable(ctx context.Context, node *domain.OltNode) error
}

// GormStore is the GORM implementation of the inventory and sink interfaces.
type GormStore struct {
	db *gorm.DB
}

var (
	_ Inventory     = (*GormStore)(nil)
	_ TelemetrySink = (*GormStore)(nil)
	_ DiscoverySink = (*GormStore)(nil)
	_ StatusSink    = (*GormStore)(nil)
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (r *GormStore) ListNodes(ctx context.Context, filter InventoryFilter) ([]*domain.OltNode, error) {
	query := r.db.WithContext(ctx).Where("status = ?", "enabled")
	if filter.NodeID > 0 {
		query = query.Where("id = ?", filter.NodeID)
	}
	if filter.VendorClass > 0 {
		query = query.Where("vendor_class = ?", filter.VendorClass)
	}
	if filter.Region != "" && !strings.EqualFold(filter.Region, "all") {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Service != "" {
		query = query.Where("service = ?", filter.Service)
	}
	var nodes []*domain.OltNode
	err := query.Order("id ASC").Find(&nodes).Error
	return nodes, err
}

func (r *GormStore) Profile(ctx context.Context, vendorClass int) (*domain.NodeProfile, error) {
	var profile domain.NodeProfile
	err := r.db.WithContext(ctx).First(&profile, vendorClass).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormStore) MetricQueries(ctx context.Context, nodeID int64) ([]MetricQuery, error) {
	var rows []domain.OnuMetricOid
	err := r.db.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	queries := make([]MetricQuery, 0, len(rows))
	for _, row := range rows {
		queries = append(queries, MetricQuery{
			RecordKey:      row.SerialId,
			OidRxPower:     row.OidRxPower,
			OidDistance:    row.OidDistance,
			OidOltRxPower:  row.OidOltRxPower,
			OidTemperature: row.OidTemperature,
		})
	}
	return queries, nil
}

func (r *GormStore) SaveTelemetry(ctx context.Context, node *domain.OltNode, samples []TelemetrySample) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range samples {
			s := &samples[i]
			err := tx.Model(&domain.OnuSerial{}).
				Where("id = ?", s.RecordKey).
				Updates(map[string]interface{}{
					"rx_power":     s.RxPower,
					"distance":     s.Distance,
					"olt_rx_power": s.OltRxPower,
					"temperature":  s.Temperature,
					"updated_at":   time.Now(),
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormStore) SaveDiscovery(ctx context.Context, node *domain.OltNode, records []DiscoveryRecord) error {
	var mappings []domain.OnuOid
	err := r.db.WithContext(ctx).
		Where("vendor_class = ?", node.VendorClass).
		Find(&mappings).Error
	if err != nil {
		return err
	}
	oidToOnu := make(map[string]int64, len(mappings))
	for _, m := range mappings {
		oidToOnu[m.OidSerial] = m.ID
	}

	rows, unresolved := resolveDiscovery(node, records, oidToOnu)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "node_id"}, {Name: "onu_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"serial", "name", "last_online", "updated_at",
				}),
			}).Create(&rows[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// reported outside the upsert transaction so a failed report cannot roll
	// back the device's discovery rows
	for _, oid := range unresolved {
		if err := r.RecordUnresolved(ctx, oid, node); err != nil {
			zap.L().Error("record unresolved oid failed",
				zap.String("oid", oid),
				zap.String("ip", node.Ipaddr),
				zap.Error(err))
		}
	}
	return nil
}

// resolveDiscovery splits a device's discovery records into upsert rows for
// serial OIDs with a stable identity mapping and the OIDs without one.
func resolveDiscovery(node *domain.OltNode, records []DiscoveryRecord, oidToOnu map[string]int64) ([]domain.OnuSerialRaw, []string) {
	rows := make([]domain.OnuSerialRaw, 0, len(records))
	var unresolved []string
	for _, rec := range records {
		onuID, ok := oidToOnu[rec.SerialOid]
		if !ok {
			unresolved = append(unresolved, rec.SerialOid)
			continue
		}
		rows = append(rows, domain.OnuSerialRaw{
			NodeId:     node.ID,
			OnuId:      onuID,
			Serial:     rec.Serial,
			Name:       rec.Description,
			LastOnline: rec.LastOnline,
		})
	}
	return rows, unresolved
}

func (r *GormStore) RecordUnresolved(ctx context.Context, oid string, node *domain.OltNode) error {
	return r.db.WithContext(ctx).Create(&domain.UnresolvedOid{
		Oid:      oid,
		NodeId:   node.ID,
		NodeName: node.Name,
		NodeIp:   node.Ipaddr,
	}).Error
}

func (r *GormStore) PromoteDiscovery(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE onu_serial AS s
		SET serial = r.serial,
		    name = r.name,
		    last_online = r.last_online,
		    updated_at = NOW()
		FROM onu_serial_raw AS r
		WHERE s.node_id = r.node_id AND s.onu_id = r.onu_id`).Error
}

func (r *GormStore) RecordUnreachable(ctx context.Context, node *domain.OltNode) error {
	return r.db.WithContext(ctx).Create(&domain.PingStatus{
		NodeId:    node.ID,
		NodeName:  node.Name,
		NodeIp:    node.Ipaddr,
		Reachable: false,
	}).Error
}
