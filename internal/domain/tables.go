package domain

var Tables = []interface{}{
	// Network
	&OltNode{},
	&NodeProfile{},
	&PingStatus{},
	// ONU
	&OnuSerial{},
	&OnuSerialRaw{},
	&OnuMetricOid{},
	&OnuOid{},
	&UnresolvedOid{},
}
