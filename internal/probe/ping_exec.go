package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var rttPatterns = []*regexp.Regexp{
	regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`),
	regexp.MustCompile(`(?:rtt|round-trip) min/avg/max(?:/(?:mdev|stddev))? = [0-9.]+/([0-9.]+)/`),
}

// ExecPinger shells out to the platform ping command, one echo per call.
type ExecPinger struct {
	timeout time.Duration
	goos    string
}

func NewExecPinger(timeout time.Duration) *ExecPinger {
	return &ExecPinger{timeout: timeout, goos: runtime.GOOS}
}

func (p *ExecPinger) Ping(ctx context.Context, host string) (Reply, error) {
	if strings.HasPrefix(host, "-") {
		return Reply{}, fmt.Errorf("invalid host %q", host)
	}

	cmd := exec.CommandContext(ctx, "ping", pingArgs(p.goos, host, p.timeout)...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return Reply{}, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// non-zero exit: no reply or unknown host
			return Reply{}, nil
		}
		return Reply{}, fmt.Errorf("run ping: %w", err)
	}

	return replyFromOutput(string(out)), nil
}

// replyFromOutput reads a zero-exit ping run. Windows ping also exits 0
// when a router answers "Destination host unreachable", so a run without
// a round-trip time is not a reply.
func replyFromOutput(output string) Reply {
	rtt, ok := parsePingOutput(output)
	if !ok {
		return Reply{}
	}
	return Reply{Alive: true, RTTMs: rtt}
}

func pingArgs(goos, host string, timeout time.Duration) []string {
	switch goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	case "darwin", "freebsd":
		// -W is in milliseconds on BSD-derived ping
		return []string{"-c", "1", "-W", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	default:
		secs := int(timeout.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		return []string{"-c", "1", "-W", strconv.Itoa(secs), host}
	}
}

// parsePingOutput extracts the round-trip time from ping output. ok is
// false when no known pattern matches.
func parsePingOutput(output string) (rtt float64, ok bool) {
	for _, re := range rttPatterns {
		matches := re.FindStringSubmatch(output)
		if len(matches) > 1 {
			if rtt, err := strconv.ParseFloat(matches[1], 64); err == nil {
				return rtt, true
			}
		}
	}

	return 0, false
}
