package domain

import "time"

// Network module related models

// OltNode an OLT access device polled over SNMP
type OltNode struct {
	ID             int64     `json:"id,string" form:"id"`                       // Primary key ID
	Name           string    `json:"name" form:"name"`                         // Device name
	VendorClass    int       `json:"vendor_class" form:"vendor_class"`         // Vendor class code, selects decode profile
	Ipaddr         string    `json:"ipaddr" form:"ipaddr"`                     // Device IP
	SnmpPort       int       `json:"snmp_port" form:"snmp_port"`               // Device SNMP port
	SnmpCommunity  string    `json:"snmp_community" form:"snmp_community"`     // Device SNMP community string
	Service        string    `json:"service" form:"service"`                   // Access service type (ftth etc.)
	Region         string    `json:"region" form:"region"`                     // Region tag
	Exchange       string    `json:"exchange" form:"exchange"`                 // Exchange site
	Sysname        string    `json:"sysname" form:"sysname"`                   // Reported system name
	Status         string    `json:"status" form:"status"`                     // Device status (enabled/disabled)
	LastPollAt     time.Time `json:"last_poll_at"`                             // Last telemetry poll time
	LastPollResult string    `json:"last_poll_result" form:"last_poll_result"` // Last poll result (ok/failed)
	Remark         string    `json:"remark" form:"remark"`                     // Remark
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName Specify table name
func (OltNode) TableName() string {
	return "olt_node"
}

// NodeProfile per vendor-class SNMP subtree roots used by discovery
type NodeProfile struct {
	ID                int64     `json:"id,string" form:"id"`                             // Primary key ID, equals the vendor class code
	Name              string    `json:"name" form:"name"`                               // Profile name
	Vendor            string    `json:"vendor" form:"vendor"`                           // Vendor name
	Service           string    `json:"service" form:"service"`                         // Access service type
	OidOnuSerial      string    `json:"oid_onu_serial" form:"oid_onu_serial"`           // Root OID for ONU serial walk
	OidOnuDescription string    `json:"oid_onu_description" form:"oid_onu_description"` // Root OID for ONU description walk
	OidOnuLastOnline  string    `json:"oid_onu_last_online" form:"oid_onu_last_online"` // Root OID for ONU last-online walk
	Remark            string    `json:"remark" form:"remark"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName Specify table name
func (NodeProfile) TableName() string {
	return "node_profile"
}

// PingStatus reachability report rows for nodes that failed the ping gate
type PingStatus struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	NodeId    int64     `gorm:"index" json:"node_id"`
	NodeName  string    `json:"node_name"`
	NodeIp    string    `json:"node_ip"`
	Reachable bool      `json:"reachable"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (PingStatus) TableName() string {
	return "ping_status"
}
