package probe

import "context"

type Kind string

const (
	KindHTTP Kind = "http"
	KindPing Kind = "ping"
)

// Result is one latency measurement. LatencyMs is only meaningful when OK.
type Result struct {
	Kind      Kind
	LatencyMs float64
	OK        bool
}

// Reply is what a single echo probe reports.
type Reply struct {
	Alive bool
	RTTMs float64
}

// Pinger sends one echo probe to host and waits for it to complete.
// A host that does not answer is a Reply with Alive false, not an error.
type Pinger interface {
	Ping(ctx context.Context, host string) (Reply, error)
}
