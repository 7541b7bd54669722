package metrics

import "math"

// PingSummary is the outcome of one ping session.
//
// AvgLatencyMs averages the successful probes only, so losses do not pull
// the mean down. It is NaN when nothing was received; use Available before
// formatting it.
type PingSummary struct {
	AvgLatencyMs  float64
	PacketLossPct float64
	Sent          int
	Received      int
}

func (s PingSummary) Available() bool {
	return s.Received > 0 && !math.IsNaN(s.AvgLatencyMs)
}

// PingTally accumulates probe outcomes for a single session. The zero value
// is ready to use.
type PingTally struct {
	sent   int
	recv   int
	rttSum float64
}

func (t *PingTally) Record(alive bool, rttMs float64) {
	t.sent++
	if alive {
		t.recv++
		t.rttSum += rttMs
	}
}

func (t *PingTally) Sent() int { return t.sent }

func (t *PingTally) Lost() int { return t.sent - t.recv }

func (t *PingTally) Summary() PingSummary {
	avg := math.NaN()
	if t.recv > 0 {
		avg = t.rttSum / float64(t.recv)
	}

	var loss float64
	if t.sent > 0 {
		loss = float64(t.sent-t.recv) / float64(t.sent) * 100.0
	}

	return PingSummary{
		AvgLatencyMs:  avg,
		PacketLossPct: loss,
		Sent:          t.sent,
		Received:      t.recv,
	}
}
