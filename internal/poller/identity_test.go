package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSerial(t *testing.T) {
	// first 4 octets become ASCII, the rest uppercase hex
	assert.Equal(t, "ABCD0506", NormalizeSerial("41:42:43:44:05:06"))
	assert.Equal(t, "ZTEGC0A80102", NormalizeSerial("5a:54:45:47:c0:a8:01:02"))
}

func TestNormalizeSerialShortInput(t *testing.T) {
	// fewer than 4 octets: prefix of however many are present, no padding
	assert.Equal(t, "AB", NormalizeSerial("41:42"))
	assert.Equal(t, "A", NormalizeSerial("41"))
}

func TestNormalizeSerialEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeSerial(""))
}

func TestNormalizeSerialMalformedOctet(t *testing.T) {
	// unparseable octets are kept as their original text
	assert.Equal(t, "ZZTEG01", NormalizeSerial("ZZ:54:45:47:01"))
}

func TestParseDeviceTimeLiteral(t *testing.T) {
	got := ParseDeviceTime("2024-03-01 10:00:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local), *got)
}

func TestParseDeviceTimeHexNoTimezone(t *testing.T) {
	// year=0x07E8=2024, month=3, day=1, hour=10, min=0, sec=0
	got := ParseDeviceTime("07:E8:03:01:0A:00:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local), *got)
}

func TestParseDeviceTimeHexWithOffset(t *testing.T) {
	// 11-field variant: deciseconds, '+' direction byte, 5h45m offset
	got := ParseDeviceTime("07:E8:03:01:0A:00:00:00:2B:05:2D")
	require.NotNil(t, got)
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("", 345*60))
	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}

func TestParseDeviceTimeHexNegativeOffset(t *testing.T) {
	// '-' direction byte (0x2D) negates the offset
	got := ParseDeviceTime("07:E8:03:01:0A:00:00:00:2D:02:00")
	require.NotNil(t, got)
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("", -120*60))
	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}

func TestParseDeviceTimeInvalid(t *testing.T) {
	cases := map[string]string{
		"month out of range":  "07:E8:0D:01:0A:00:00",
		"day out of range":    "07:E8:03:20:0A:00:00", // 0x20 = 32
		"hour out of range":   "07:E8:03:01:18:00:00", // 0x18 = 24
		"too few fields":      "07:E8:03:01:0A:00",
		"empty":               "",
		"malformed hex digit": "07:E8:0X:01:0A:00:00",
		"impossible calendar": "07:E8:02:1F:0A:00:00", // Feb 31
		"leap second":         "07:E8:03:01:0A:00:3C", // 0x3C = 60, normalizes to the next minute
	}
	for name, input := range cases {
		assert.Nil(t, ParseDeviceTime(input), name)
	}
}
