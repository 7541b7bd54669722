package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/iaserrat/netprobe/internal/metrics"
	"github.com/iaserrat/netprobe/internal/probe"
)

const unavailable = "N/A"

// Latency formats a millisecond value to two decimals, or N/A.
func Latency(ms float64, ok bool) string {
	if !ok {
		return unavailable
	}
	return fmt.Sprintf("%.2f", ms)
}

func Percent(pct float64) string {
	return fmt.Sprintf("%.2f", pct)
}

func HTTPLatency(w io.Writer, res probe.Result) {
	fmt.Fprintf(w, "HTTP Latency: %s ms\n", Latency(res.LatencyMs, res.OK))
}

// PingSession prints the block emitted at the end of every ping session.
func PingSession(w io.Writer, host string, s metrics.PingSummary) {
	fmt.Fprintf(w, "Ping Results for %s:\n", host)
	fmt.Fprintf(w, "Average Latency: %s ms\n", Latency(s.AvgLatencyMs, s.Available()))
	fmt.Fprintf(w, "Packet Loss: %s%%\n", Percent(s.PacketLossPct))
}

// Text prints the final summary of a full test.
func Text(w io.Writer, s metrics.PingSummary) {
	fmt.Fprintln(w, "Session Summary:")
	fmt.Fprintf(w, "Average Ping Latency: %s ms\n", Latency(s.AvgLatencyMs, s.Available()))
	fmt.Fprintf(w, "Packet Loss: %s%%\n", Percent(s.PacketLossPct))
}

// Table prints the final summary of a full test as a single-row table.
func Table(w io.Writer, host string, httpRes probe.Result, s metrics.PingSummary) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Host", "HTTP (ms)", "Ping avg (ms)", "Received/Sent", "Loss (%)"}),
	)

	if err := table.Append([]string{
		host,
		Latency(httpRes.LatencyMs, httpRes.OK),
		Latency(s.AvgLatencyMs, s.Available()),
		fmt.Sprintf("%d/%d", s.Received, s.Sent),
		Percent(s.PacketLossPct),
	}); err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
