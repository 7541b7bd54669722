package probe

import (
	"context"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

func TestParsePingOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected float64
		matched  bool
	}{
		{
			name:     "macOS individual response",
			output:   "64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms",
			expected: 44.347,
			matched:  true,
		},
		{
			name:     "macOS summary line",
			output:   "round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms",
			expected: 44.347,
			matched:  true,
		},
		{
			name:     "Linux summary line",
			output:   "rtt min/avg/max/mdev = 12.300/12.300/12.300/0.000 ms",
			expected: 12.3,
			matched:  true,
		},
		{
			name:     "BusyBox summary line",
			output:   "round-trip min/avg/max = 12.3/12.3/12.3 ms",
			expected: 12.3,
			matched:  true,
		},
		{
			name:     "Windows response",
			output:   "Reply from 8.8.8.8: bytes=32 time=15ms TTL=118",
			expected: 15,
			matched:  true,
		},
		{
			name:     "Windows sub-millisecond",
			output:   "Reply from 8.8.8.8: bytes=32 time<1ms TTL=118",
			expected: 1,
			matched:  true,
		},
		{
			name:     "No match",
			output:   "ping: unknown host example.invalid",
			expected: 0,
		},
		{
			name:     "Empty output",
			output:   "",
			expected: 0,
		},
		{
			name: "Windows destination unreachable",
			output: `Pinging 10.0.0.9 with 32 bytes of data:
Reply from 10.0.0.1: Destination host unreachable.

Ping statistics for 10.0.0.9:
    Packets: Sent = 1, Received = 1, Lost = 0 (0% loss),`,
			expected: 0,
		},
		{
			name: "Multiple lines with Linux output",
			output: `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=9.87 ms

--- 8.8.8.8 ping statistics ---
1 packets transmitted, 1 received, 0% packet loss, time 0ms
rtt min/avg/max/mdev = 9.870/9.870/9.870/0.000 ms`,
			expected: 9.87,
			matched:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, matched := parsePingOutput(tt.output)
			if result != tt.expected || matched != tt.matched {
				t.Errorf("parsePingOutput(%q) = %v, %v, want %v, %v", tt.output, result, matched, tt.expected, tt.matched)
			}
		})
	}
}

func TestReplyFromOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   Reply
	}{
		{
			name:   "Windows reply",
			output: "Reply from 8.8.8.8: bytes=32 time=15ms TTL=118",
			want:   Reply{Alive: true, RTTMs: 15},
		},
		{
			name:   "Windows destination unreachable",
			output: "Reply from 10.0.0.1: Destination host unreachable.",
			want:   Reply{},
		},
		{
			name:   "Windows TTL expired",
			output: "Reply from 10.0.0.1: TTL expired in transit.",
			want:   Reply{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replyFromOutput(tt.output); got != tt.want {
				t.Errorf("replyFromOutput(%q) = %+v, want %+v", tt.output, got, tt.want)
			}
		})
	}
}

func TestPingArgs(t *testing.T) {
	tests := []struct {
		goos    string
		timeout time.Duration
		want    []string
	}{
		{"linux", 2 * time.Second, []string{"-c", "1", "-W", "2", "example.com"}},
		{"linux", 100 * time.Millisecond, []string{"-c", "1", "-W", "1", "example.com"}},
		{"darwin", 2 * time.Second, []string{"-c", "1", "-W", "2000", "example.com"}},
		{"windows", 1500 * time.Millisecond, []string{"-n", "1", "-w", "1500", "example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := pingArgs(tt.goos, "example.com", tt.timeout)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pingArgs(%s) = %v, want %v", tt.goos, got, tt.want)
			}
		})
	}
}

func TestExecPingerRejectsFlagLikeHost(t *testing.T) {
	_, err := NewExecPinger(time.Second).Ping(context.Background(), "-f")
	if err == nil {
		t.Fatalf("expected error for host starting with -")
	}
}

func TestExecPingerLoopback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ping integration test in short mode")
	}
	if _, err := exec.LookPath("ping"); err != nil {
		t.Skip("ping binary not available on PATH")
	}

	reply, err := NewExecPinger(2*time.Second).Ping(context.Background(), "127.0.0.1")
	if err != nil {
		t.Skipf("skipping due to unexpected ping failure: %v", err)
	}
	if !reply.Alive {
		t.Skip("loopback ping not permitted in this environment")
	}
	if reply.RTTMs < 0 {
		t.Errorf("expected non-negative RTT, got %v", reply.RTTMs)
	}
}
