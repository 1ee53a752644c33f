package poller

import (
	"testing"

	gosnmp "github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
)

func TestFormatVariablePrintableOctetString(t *testing.T) {
	pdu := gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("cust-alpha")}
	assert.Equal(t, "cust-alpha", formatVariable(pdu))
}

func TestFormatVariableBinaryOctetString(t *testing.T) {
	pdu := gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte{0x5a, 0x54, 0x45, 0x47, 0xc0, 0xa8, 0x01, 0x02}}
	assert.Equal(t, "5a:54:45:47:c0:a8:01:02", formatVariable(pdu))
}

func TestFormatVariableInteger(t *testing.T) {
	pdu := gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: -4500}
	assert.Equal(t, "-4500", formatVariable(pdu))
}

func TestFormatVariableAbsent(t *testing.T) {
	for _, typ := range []gosnmp.Asn1BER{gosnmp.Null, gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView} {
		pdu := gosnmp.SnmpPDU{Type: typ}
		assert.Equal(t, "", formatVariable(pdu))
	}
}

func TestIsPrintable(t *testing.T) {
	assert.True(t, isPrintable([]byte("ZTEG-onu 42")))
	assert.True(t, isPrintable(nil))
	assert.False(t, isPrintable([]byte{0x07, 0xe8}))
	assert.False(t, isPrintable([]byte("abc\x00")))
}

func TestToColonHex(t *testing.T) {
	assert.Equal(t, "07:e8:03", toColonHex([]byte{0x07, 0xe8, 0x03}))
	assert.Equal(t, "ff", toColonHex([]byte{0xff}))
	assert.Equal(t, "", toColonHex(nil))
}
