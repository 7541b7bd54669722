package probe

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type HTTPConfig struct {
	Port int
	// Timeout of zero leaves the request unbounded.
	Timeout time.Duration
}

// HTTPProber times a single GET from request start until the whole
// response body has been read.
type HTTPProber struct {
	client *http.Client
	port   int
	log    logrus.FieldLogger
}

func NewHTTPProber(cfg HTTPConfig, log logrus.FieldLogger) *HTTPProber {
	transport := &http.Transport{
		DialContext:       (&net.Dialer{}).DialContext,
		DisableKeepAlives: true,
	}

	return &HTTPProber{
		client: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		port:   cfg.Port,
		log:    log,
	}
}

// Measure never returns an error: every failure is logged and reported as
// a Result with OK false.
func (p *HTTPProber) Measure(ctx context.Context, host, path string) Result {
	// JoinHostPort adds its own brackets around IPv6 literals.
	url := "http://" + net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(p.port)) + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		p.fail(host, err)
		return Result{Kind: KindHTTP}
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.fail(host, err)
		return Result{Kind: KindHTTP}
	}

	_, err = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)
	if err != nil {
		p.fail(host, err)
		return Result{Kind: KindHTTP}
	}

	p.log.WithFields(logrus.Fields{
		"host":   host,
		"status": resp.StatusCode,
	}).Debug("http probe completed")

	return Result{
		Kind:      KindHTTP,
		LatencyMs: float64(elapsed.Nanoseconds()) / float64(time.Millisecond),
		OK:        true,
	}
}

func (p *HTTPProber) fail(host string, err error) {
	p.log.WithField("host", host).Errorf("Request error: %v", err)
}
