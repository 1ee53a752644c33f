package poller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileForClass(t *testing.T) {
	assert.Equal(t, ProfileA, ProfileForClass(9))
	assert.Equal(t, ProfileA, ProfileForClass(10))
	assert.Equal(t, ProfileB, ProfileForClass(11))
	assert.Equal(t, ProfileB, ProfileForClass(17))
}

func TestProfileBDecodeRxPower(t *testing.T) {
	// 65535 is the no-signal sentinel, matched before scaling
	assert.Equal(t, 0.0, ProfileB.DecodeRxPower("65535"))
	assert.InDelta(t, 30.0, ProfileB.DecodeRxPower("30000"), 1e-9)
	assert.InDelta(t, -20.0, ProfileB.DecodeRxPower("5000"), 1e-9)
}

func TestProfileBDecodeOltRxPower(t *testing.T) {
	assert.Equal(t, 0.0, ProfileB.DecodeOltRxPower("-80000"))
	assert.InDelta(t, -5.0, ProfileB.DecodeOltRxPower("-5000"), 1e-9)
}

func TestProfileADecodeRxPower(t *testing.T) {
	// positive readings are invalid for Profile A devices
	assert.Equal(t, 0.0, ProfileA.DecodeRxPower("150"))
	assert.InDelta(t, -45.0, ProfileA.DecodeRxPower("-4500"), 1e-9)
}

func TestProfileADecodeOltRxPower(t *testing.T) {
	assert.Equal(t, 0.0, ProfileA.DecodeOltRxPower("20000"))
	assert.InDelta(t, 72.5, ProfileA.DecodeOltRxPower("2750"), 1e-9)
}

func TestProfileADecodeTemperature(t *testing.T) {
	assert.Equal(t, 0.0, ProfileA.DecodeTemperature("150"))
	assert.InDelta(t, 45.0, ProfileA.DecodeTemperature("45"), 1e-9)
}

func TestDecodeDistance(t *testing.T) {
	assert.Equal(t, 1234, DecodeDistance("1234"))
	assert.Equal(t, 0, DecodeDistance("noSuchInstance"))
	assert.Equal(t, 0, DecodeDistance(""))
}

func TestDecodeParseFailureYieldsZero(t *testing.T) {
	for _, p := range []VendorProfile{ProfileA, ProfileB} {
		assert.Equal(t, 0.0, p.DecodeRxPower("noSuchObject"))
		assert.Equal(t, 0.0, p.DecodeOltRxPower(""))
		assert.Equal(t, 0.0, p.DecodeTemperature("n/a"))
	}
}

func TestHasTemperature(t *testing.T) {
	assert.True(t, ProfileA.HasTemperature())
	assert.False(t, ProfileB.HasTemperature())
}
