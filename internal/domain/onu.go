package domain

import "time"

// ONU module related models

// OnuSerial the primary per-ONU record; telemetry and identity columns are
// updated in place by the poll and discovery cycles
type OnuSerial struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	NodeId      int64      `gorm:"index" json:"node_id,string"` // Owning OLT node ID
	OnuId       int64      `gorm:"index" json:"onu_id,string"`  // ONU OID mapping ID
	Serial      string     `json:"serial"`                      // Normalized ONU serial
	Name        string     `json:"name"`                        // ONU description
	RxPower     float64    `json:"rx_power"`                    // ONU receive level in dBm
	Distance    int        `json:"distance"`                    // ONU distance in meters
	OltRxPower  float64    `json:"olt_rx_power"`                // OLT-side receive level in dBm
	Temperature float64    `json:"temperature"`                 // ONU temperature in Celsius
	LastOnline  *time.Time `json:"last_online"`                 // Last registration time, nil when unknown
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (OnuSerial) TableName() string {
	return "onu_serial"
}

// OnuSerialRaw staging rows written by discovery, promoted into onu_serial
type OnuSerialRaw struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	NodeId     int64      `gorm:"uniqueIndex:uk_onu_serial_raw" json:"node_id,string"`
	OnuId      int64      `gorm:"uniqueIndex:uk_onu_serial_raw" json:"onu_id,string"`
	Serial     string     `json:"serial"`
	Name       string     `json:"name"`
	LastOnline *time.Time `json:"last_online"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (OnuSerialRaw) TableName() string {
	return "onu_serial_raw"
}

// OnuMetricOid the per-ONU family of metric OIDs queried by the poll engine.
// Rows keep the originating onu_serial row ID so decoded samples can be
// written back.
type OnuMetricOid struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id,string"`
	NodeId         int64  `gorm:"index" json:"node_id,string"`
	SerialId       int64  `json:"serial_id,string"` // onu_serial row updated with decoded values
	OnuId          int64  `json:"onu_id,string"`
	OidRxPower     string `json:"oid_rx_power"`
	OidDistance    string `json:"oid_distance"`
	OidOltRxPower  string `json:"oid_olt_rx_power"`
	OidTemperature string `json:"oid_temperature"`
}

// TableName Specify table name
func (OnuMetricOid) TableName() string {
	return "onu_metric_oid"
}

// OnuOid maps a full serial OID observed in a discovery walk to a stable
// ONU identity for a vendor class
type OnuOid struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	VendorClass int       `gorm:"index" json:"vendor_class"`
	OidSerial   string    `json:"oid_serial"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName Specify table name
func (OnuOid) TableName() string {
	return "onu_oid"
}

// UnresolvedOid serial OIDs seen on a device but absent from onu_oid
type UnresolvedOid struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Oid       string    `json:"oid"`
	NodeId    int64     `gorm:"index" json:"node_id,string"`
	NodeName  string    `json:"node_name"`
	NodeIp    string    `json:"node_ip"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (UnresolvedOid) TableName() string {
	return "unresolved_oid"
}
