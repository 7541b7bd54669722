package probe

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// ProbingPinger uses pro-bing. Unprivileged mode sends UDP-based echo
// requests, which Linux allows when net.ipv4.ping_group_range covers the
// current group.
type ProbingPinger struct {
	timeout    time.Duration
	privileged bool
	resolver   *Resolver
}

func NewProbingPinger(timeout time.Duration, privileged bool, resolver *Resolver) *ProbingPinger {
	return &ProbingPinger{timeout: timeout, privileged: privileged, resolver: resolver}
}

func (p *ProbingPinger) Ping(ctx context.Context, host string) (Reply, error) {
	ip, err := p.resolver.Resolve(ctx, host)
	if err != nil {
		return Reply{}, err
	}

	pinger, err := probing.NewPinger(ip.String())
	if err != nil {
		return Reply{}, fmt.Errorf("new pinger: %w", err)
	}
	pinger.SetPrivileged(p.privileged)
	pinger.Count = 1
	pinger.Timeout = p.timeout

	if err := pinger.RunWithContext(ctx); err != nil { // blocks until done
		if ctx.Err() != nil {
			return Reply{}, ctx.Err()
		}
		return Reply{}, fmt.Errorf("ping %s: %w", ip, err)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return Reply{}, nil
	}

	return Reply{Alive: true, RTTMs: float64(stats.AvgRtt.Microseconds()) / 1000}, nil
}
