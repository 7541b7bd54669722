package session

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/iaserrat/netprobe/internal/metrics"
	"github.com/iaserrat/netprobe/internal/probe"
	"github.com/iaserrat/netprobe/internal/report"
)

var ErrNoProbes = errors.New("ping count must be at least 1")

// HTTPMeasurer times a single HTTP round trip. *probe.HTTPProber
// satisfies it.
type HTTPMeasurer interface {
	Measure(ctx context.Context, host, path string) probe.Result
}

type Options struct {
	Path  string
	Count int
	Table bool
	Out   io.Writer
	Log   logrus.FieldLogger
}

// Report is the outcome of PerformTest.
type Report struct {
	Host string
	HTTP probe.Result
	Ping metrics.PingSummary
}

// Session runs the probes of one invocation. Probes run one at a time;
// nothing is shared between sessions.
type Session struct {
	http   HTTPMeasurer
	pinger probe.Pinger
	opts   Options
}

func New(httpProber HTTPMeasurer, pinger probe.Pinger, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}
	return &Session{http: httpProber, pinger: pinger, opts: opts}
}

func (s *Session) MeasureHTTPLatency(ctx context.Context, host, path string) probe.Result {
	return s.http.Measure(ctx, host, path)
}

// MeasurePingLatency sends count sequential probes and prints the session
// summary. Pinger errors count as losses; the first one in a session is
// logged as a warning, the rest at debug level. A cancelled ctx stops the
// session without a summary.
func (s *Session) MeasurePingLatency(ctx context.Context, host string, count int) (metrics.PingSummary, error) {
	if count < 1 {
		return metrics.PingSummary{}, ErrNoProbes
	}

	var (
		tally  metrics.PingTally
		warned bool
	)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return metrics.PingSummary{}, err
		}

		reply, err := s.pinger.Ping(ctx, host)
		if err != nil {
			if ctx.Err() != nil {
				return metrics.PingSummary{}, ctx.Err()
			}
			entry := s.opts.Log.WithFields(logrus.Fields{
				"host": host,
				"seq":  i + 1,
			})
			if !warned {
				entry.Warnf("ping failed: %v", err)
				warned = true
			} else {
				entry.Debugf("ping failed: %v", err)
			}
		}

		res := probe.Result{Kind: probe.KindPing, LatencyMs: reply.RTTMs, OK: err == nil && reply.Alive}
		tally.Record(res.OK, res.LatencyMs)
	}

	summary := tally.Summary()
	s.opts.Log.WithFields(logrus.Fields{
		"host": host,
		"sent": tally.Sent(),
		"lost": tally.Lost(),
	}).Debug("ping session completed")

	report.PingSession(s.opts.Out, host, summary)
	return summary, nil
}

// PerformTest runs one HTTP measurement followed by one ping session and
// prints both.
func (s *Session) PerformTest(ctx context.Context, host string) (Report, error) {
	rep := Report{Host: host}

	rep.HTTP = s.MeasureHTTPLatency(ctx, host, s.opts.Path)
	report.HTTPLatency(s.opts.Out, rep.HTTP)

	summary, err := s.MeasurePingLatency(ctx, host, s.opts.Count)
	if err != nil {
		return rep, err
	}
	rep.Ping = summary

	if s.opts.Table {
		if err := report.Table(s.opts.Out, host, rep.HTTP, rep.Ping); err != nil {
			return rep, err
		}
		return rep, nil
	}

	report.Text(s.opts.Out, rep.Ping)
	return rep, nil
}
