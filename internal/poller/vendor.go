package poller

import "strconv"

// VendorProfile selects the raw-value decode formulas and sentinel rules for
// a device. It is resolved once per device from the vendor class code and
// passed down to every decode call.
type VendorProfile int

const (
	// ProfileA covers ZTE-style devices, vendor class <= 10
	ProfileA VendorProfile = iota
	// ProfileB covers the remaining vendor classes
	ProfileB
)

// ProfileForClass maps a vendor class code to its decode profile.
func ProfileForClass(vendorClass int) VendorProfile {
	if vendorClass <= 10 {
		return ProfileA
	}
	return ProfileB
}

func (p VendorProfile) String() string {
	if p == ProfileA {
		return "profile-a"
	}
	return "profile-b"
}

// HasTemperature reports whether the profile queries the temperature family.
// Profile B devices do not expose a usable temperature OID.
func (p VendorProfile) HasTemperature() bool {
	return p == ProfileA
}

// DecodeRxPower converts a raw ONU receive level into dBm. Sentinel values
// are matched against the raw reading before scaling.
func (p VendorProfile) DecodeRxPower(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	if p == ProfileB {
		if v == 65535 {
			return 0
		}
		return v*0.002 - 30
	}
	// Profile A reports hundredths of a dBm; positive readings are invalid
	if v > 0 {
		return 0
	}
	return v / 100
}

// DecodeOltRxPower converts a raw OLT-side receive level into dBm.
func (p VendorProfile) DecodeOltRxPower(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	if p == ProfileB {
		if v == -80000 {
			return 0
		}
		return v / 1000
	}
	if v/100 > 100 {
		return 0
	}
	return 100 - v/100
}

// DecodeTemperature converts a raw temperature reading into Celsius. The raw
// value is already Celsius-scaled; readings above 100 are sentinel noise.
func (p VendorProfile) DecodeTemperature(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	if v > 100 {
		return 0
	}
	return v
}

// DecodeDistance parses a raw distance reading in meters. Profile
// independent; non-numeric input yields 0.
func DecodeDistance(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
