package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/miekg/dns"
)

// systemTTL is how long answers from the system resolver are cached; it
// does not expose record TTLs.
const systemTTL = 30 * time.Second

// Resolver turns a host into an IP for the raw ping backends. Answers are
// cached so a session of N probes triggers at most one lookup.
type Resolver struct {
	servers []string
	client  *dns.Client
	system  *net.Resolver
	cache   *ttlcache.Cache[string, net.IP]
}

// NewResolver queries servers with miekg/dns. With no servers it falls back
// to the system resolver.
func NewResolver(servers []string, timeout time.Duration) *Resolver {
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		s = strings.TrimSpace(s)
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		normalized = append(normalized, s)
	}

	return &Resolver{
		servers: normalized,
		client:  &dns.Client{Timeout: timeout},
		system:  net.DefaultResolver,
		cache: ttlcache.New[string, net.IP](
			ttlcache.WithDisableTouchOnHit[string, net.IP](),
		),
	}
}

func (r *Resolver) Resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		return ip, nil
	}
	if item := r.cache.Get(host); item != nil {
		return item.Value(), nil
	}

	var (
		ip  net.IP
		ttl time.Duration
		err error
	)
	if len(r.servers) == 0 {
		ip, err = r.lookupSystem(ctx, host)
		ttl = systemTTL
	} else {
		ip, ttl, err = r.exchange(ctx, host)
	}
	if err != nil {
		return nil, err
	}

	if ttl > 0 {
		r.cache.Set(host, ip, ttl)
	}
	return ip, nil
}

func (r *Resolver) lookupSystem(ctx context.Context, host string) (net.IP, error) {
	addrs, err := r.system.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP, nil
		}
	}
	if len(addrs) > 0 {
		return addrs[0].IP, nil
	}

	return nil, fmt.Errorf("resolve %s: no addresses", host)
}

// exchange asks each server for A records, then AAAA when no server had an
// A record. The first answer wins.
func (r *Resolver) exchange(ctx context.Context, host string) (net.IP, time.Duration, error) {
	var lastErr error

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		for _, server := range r.servers {
			msg := new(dns.Msg)
			msg.SetQuestion(dns.Fqdn(host), qtype)

			resp, _, err := r.client.ExchangeContext(ctx, msg, server)
			if err != nil {
				lastErr = err
				continue
			}
			if resp.Rcode != dns.RcodeSuccess {
				lastErr = fmt.Errorf("%s answered %s", server, dns.RcodeToString[resp.Rcode])
				continue
			}

			for _, rr := range resp.Answer {
				switch v := rr.(type) {
				case *dns.A:
					return v.A, time.Duration(v.Hdr.Ttl) * time.Second, nil
				case *dns.AAAA:
					return v.AAAA, time.Duration(v.Hdr.Ttl) * time.Second, nil
				}
			}
			break
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no address records")
	}
	return nil, 0, fmt.Errorf("resolve %s: %w", host, lastErr)
}
