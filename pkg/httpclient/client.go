package httpclient

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/mailer/pkg/httpclient"

var (
	outboundRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Outbound HTTP requests by host and status",
		},
		[]string{"host", "method", "status"},
	)

	outboundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Outbound HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host", "method"},
	)
)

// Config holds outbound HTTP client configuration.
type Config struct {
	Timeout         time.Duration
	MaxConnsPerHost int
}

// New returns an *http.Client with a pooled transport, an overall request
// timeout, and instrumentation for metrics and client spans. It never retries
// and never propagates trace context to the remote host.
func New(cfg Config) *http.Client {
	maxConns := cfg.MaxConnsPerHost
	if maxConns <= 0 {
		maxConns = 32
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   maxConns,
		MaxConnsPerHost:       maxConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Transport: NewTransport(transport),
		Timeout:   cfg.Timeout,
	}
}

// Transport instruments an underlying RoundTripper.
type Transport struct {
	base   http.RoundTripper
	tracer trace.Tracer
}

// NewTransport wraps base. A nil base means http.DefaultTransport.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, tracer: otel.Tracer(tracerName)}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	// The span is local only; outbound requests carry no trace headers.
	start := time.Now()
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	outboundDuration.WithLabelValues(req.URL.Host, req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		outboundRequests.WithLabelValues(req.URL.Host, req.Method, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outboundRequests.WithLabelValues(req.URL.Host, req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}
