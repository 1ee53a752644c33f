package poller

import (
	"time"

	pinglib "github.com/go-ping/ping"
	"go.uber.org/zap"

	"github.com/oltwatch/oltwatch/internal/domain"
)

// Prober reachability gate consulted before any SNMP traffic is attempted.
type Prober interface {
	IsReachable(node *domain.OltNode) bool
}

type pingProber struct {
	count   int
	timeout time.Duration
}

// NewPingProber returns an ICMP/UDP prober. Unprivileged mode is used so the
// process can run without raw-socket capabilities where supported.
func NewPingProber() Prober {
	return &pingProber{count: 3, timeout: 3 * time.Second}
}

func (p *pingProber) IsReachable(node *domain.OltNode) bool {
	pinger, err := pinglib.NewPinger(node.Ipaddr)
	if err != nil {
		zap.L().Warn("ping setup failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		return false
	}
	pinger.Count = p.count
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(false)

	if err = pinger.Run(); err != nil {
		zap.L().Debug("ping run failed", zap.String("ip", node.Ipaddr), zap.Error(err))
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}
