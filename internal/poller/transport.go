package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gosnmp "github.com/gosnmp/gosnmp"
	"go.uber.org/zap"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/domain"
)

// ErrLengthMismatch the agent answered with a different variable count than
// requested, so positional correlation with the query list is lost.
var ErrLengthMismatch = errors.New("snmp response length does not match request")

// WalkEntry one (oid, value) pair from a subtree walk, in agent order.
type WalkEntry struct {
	Oid   string
	Value string
}

// Session a per-device request/response endpoint. A session is shared by
// that device's concurrent batch and walk tasks only; requests on one
// session are serialized internally.
type Session interface {
	// Get issues one correlated GET for the given OIDs and returns raw
	// values in request order, one per OID ("" for absent/null variables).
	Get(ctx context.Context, oids []string) ([]string, error)
	// Walk enumerates the subtree under rootOid in agent order.
	Walk(ctx context.Context, rootOid string) ([]WalkEntry, error)
	Close() error
}

// Transport opens sessions against poll targets.
type Transport interface {
	Open(node *domain.OltNode) (Session, error)
}

type snmpTransport struct {
	cfg config.SnmpConfig
}

// NewSnmpTransport returns a Transport speaking SNMP v2c with the configured
// timeout and retry count applied to every request.
func NewSnmpTransport(cfg config.SnmpConfig) Transport {
	return &snmpTransport{cfg: cfg}
}

func (t *snmpTransport) Open(node *domain.OltNode) (Session, error) {
	port := node.SnmpPort
	if port == 0 {
		port = t.cfg.Port
	}
	if port == 0 {
		port = 161
	}

	conn := &gosnmp.GoSNMP{
		Target:    node.Ipaddr,
		Port:      uint16(port),
		Community: node.SnmpCommunity,
		Version:   gosnmp.Version2c,
		Timeout:   t.cfg.RequestTimeout(),
		Retries:   t.cfg.Retries,
		MaxOids:   gosnmp.MaxOids,
	}
	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s: %w", node.Ipaddr, err)
	}
	zap.L().Debug("snmp session opened", zap.String("ip", node.Ipaddr), zap.Int("port", port))
	return &snmpSession{conn: conn, target: node.Ipaddr}, nil
}

// snmpSession serializes wire access; gosnmp connections are not safe for
// concurrent requests.
type snmpSession struct {
	mu     sync.Mutex
	conn   *gosnmp.GoSNMP
	target string
}

func (s *snmpSession) Get(ctx context.Context, oids []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.conn.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("snmp get %s: %w", s.target, err)
	}
	if result == nil || len(result.Variables) != len(oids) {
		got := 0
		if result != nil {
			got = len(result.Variables)
		}
		return nil, fmt.Errorf("%w: %s requested=%d got=%d",
			ErrLengthMismatch, s.target, len(oids), got)
	}

	values := make([]string, len(result.Variables))
	for i, v := range result.Variables {
		values[i] = formatVariable(v)
	}
	return values, nil
}

func (s *snmpSession) Walk(ctx context.Context, rootOid string) ([]WalkEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	pdus, err := s.conn.BulkWalkAll(rootOid)
	if err != nil {
		return nil, fmt.Errorf("snmp walk %s %s: %w", s.target, rootOid, err)
	}
	entries := make([]WalkEntry, 0, len(pdus))
	for _, pdu := range pdus {
		entries = append(entries, WalkEntry{Oid: pdu.Name, Value: formatVariable(pdu)})
	}
	return entries, nil
}

func (s *snmpSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil && s.conn.Conn != nil {
		return s.conn.Conn.Close()
	}
	return nil
}

// formatVariable renders a PDU value as the raw text form the decoders
// consume. Octet strings holding binary data (serials, packed timestamps)
// are rendered as colon-separated hex octets.
func formatVariable(pdu gosnmp.SnmpPDU) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return ""
		}
		if isPrintable(b) {
			return string(b)
		}
		return toColonHex(b)
	case gosnmp.Null, gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return ""
	default:
		if pdu.Value == nil {
			return ""
		}
		return fmt.Sprintf("%v", pdu.Value)
	}
}

func isPrintable(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

func toColonHex(b []byte) string {
	buf := make([]byte, 0, len(b)*3)
	for i, c := range b {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, fmt.Sprintf("%02x", c)...)
	}
	return string(buf)
}
