package poller

import "time"

// MetricQuery one ONU's family of metric OIDs plus the record key used to
// write decoded values back. Order within a query list is significant and is
// preserved through batching.
type MetricQuery struct {
	RecordKey      int64  // onu_serial row receiving the decoded sample
	OidRxPower     string // primary family, required
	OidDistance    string
	OidOltRxPower  string
	OidTemperature string // queried for Profile A devices only
}

// TelemetrySample decoded metric values for one ONU. Fields whose raw value
// failed to parse or was absent stay zero.
type TelemetrySample struct {
	RecordKey   int64
	RxPower     float64 // dBm
	Distance    int     // meters
	OltRxPower  float64 // dBm
	Temperature float64 // Celsius
}

// DiscoveryRecord one subtree-walk position merged across the description,
// last-online and serial walks. SerialOid is the full OID of the serial
// entry, used by the persistence sink to resolve a stable ONU identity.
type DiscoveryRecord struct {
	Description   string
	SerialRaw     string
	Serial        string
	LastOnlineRaw string
	LastOnline    *time.Time // nil when the device reported no usable timestamp
	SerialOid     string
}
