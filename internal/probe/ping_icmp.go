package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// ICMPPinger sends raw ICMP echo requests. It needs root or CAP_NET_RAW.
type ICMPPinger struct {
	timeout  time.Duration
	resolver *Resolver
	id       int
	seq      int
	payload  []byte
}

func NewICMPPinger(timeout time.Duration, resolver *Resolver) *ICMPPinger {
	return &ICMPPinger{
		timeout:  timeout,
		resolver: resolver,
		id:       os.Getpid() & 0xffff,
		payload:  []byte("netprobe"),
	}
}

func (p *ICMPPinger) Ping(ctx context.Context, host string) (Reply, error) {
	ip, err := p.resolver.Resolve(ctx, host)
	if err != nil {
		return Reply{}, err
	}

	network, listen := "ip4:icmp", "0.0.0.0"
	var echoType, replyType icmp.Type = ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	if ip.To4() == nil {
		network, listen = "ip6:ipv6-icmp", "::"
		echoType, replyType = ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
	}

	conn, err := icmp.ListenPacket(network, listen)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return Reply{}, fmt.Errorf("icmp listen requires root or CAP_NET_RAW: %w", err)
		}
		return Reply{}, fmt.Errorf("icmp listen: %w", err)
	}
	defer conn.Close()

	p.seq = (p.seq + 1) & 0xffff
	msg := icmp.Message{
		Type: echoType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  p.seq,
			Data: p.payload,
		},
	}

	b, err := msg.Marshal(nil)
	if err != nil {
		return Reply{}, fmt.Errorf("icmp marshal: %w", err)
	}

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return Reply{}, fmt.Errorf("icmp deadline: %w", err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(b, &net.IPAddr{IP: ip}); err != nil {
		return Reply{}, nil
	}

	buf := make([]byte, 1500)
	for {
		if ctx.Err() != nil {
			return Reply{}, ctx.Err()
		}

		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return Reply{}, nil
		}
		elapsed := time.Since(start)

		if !isEchoReply(buf[:n], replyType, p.id, p.seq) {
			continue
		}

		return Reply{Alive: true, RTTMs: float64(elapsed.Microseconds()) / 1000}, nil
	}
}

// isEchoReply reports whether b is the reply to our echo id/seq. The raw
// socket sees every echo reply on the host.
func isEchoReply(b []byte, replyType icmp.Type, id, seq int) bool {
	recv, err := icmp.ParseMessage(replyType.Protocol(), b)
	if err != nil || recv.Type != replyType {
		return false
	}
	echo, ok := recv.Body.(*icmp.Echo)
	return ok && echo.ID == id && echo.Seq == seq
}
