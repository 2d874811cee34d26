package jobqueue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errQStashTransient = crerr.New("qstash transient failure")

type QStashPublisherConfig struct {
	BaseURL string
	Token   string
	// TargetBaseURL is the public base URL of this service; QStash calls
	// TargetBaseURL + job path.
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher schedules internal job calls through Upstash QStash. It
// implements usecase.JobQueue.
type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

var _ usecase.JobQueue = (*QStashPublisher)(nil)

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashPublisher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          max(cfg.Retries, 0),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

type publishRequest struct {
	path            string
	publishURL      string
	targetURL       string
	body            []byte
	delay           string
	deduplicationID string
}

func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	if err := p.breaker.Allow(); err != nil {
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State())
		return fmt.Errorf("%w: qstash is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	pub, err := p.prepare(path, payload, delay, deduplicationID)
	if err != nil {
		return err
	}
	p.annotate(ctx, pub)

	err = p.send(ctx, pub)
	p.recordCircuitResult(err)
	if err != nil {
		p.logger.WarnContext(ctx, "qstash publish failed", "path", pub.path, "deduplication_id", pub.deduplicationID, "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", pub.path, "delay", pub.delay, "deduplication_id", pub.deduplicationID)
	return nil
}

func (p *QStashPublisher) prepare(path string, payload any, delay time.Duration, deduplicationID string) (publishRequest, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return publishRequest{}, crerr.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "marshal job payload")
	}

	targetURL := targetBaseURL + path
	return publishRequest{
		path:            path,
		publishURL:      baseURL + "/v2/publish/" + targetURL,
		targetURL:       targetURL,
		body:            body,
		delay:           normalizeDelay(delay),
		deduplicationID: strings.TrimSpace(deduplicationID),
	}, nil
}

func (p *QStashPublisher) annotate(ctx context.Context, pub publishRequest) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("qstash.publish_url", pub.publishURL),
		attribute.String("qstash.target_url", pub.targetURL),
		attribute.String("qstash.request_body", truncateForLog(string(pub.body), 4096)),
		attribute.String("qstash.request_curl_preview", p.curlPreview(pub)),
	)
}

func (p *QStashPublisher) send(ctx context.Context, pub publishRequest) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pub.publishURL, strings.NewReader(string(pub.body)))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	for key, value := range p.headers(pub) {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return crerr.Wrapf(errQStashTransient, "publish qstash job target_url=%s: %v", pub.targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if isQStashRetryableStatus(resp.StatusCode) {
		return crerr.Wrapf(errQStashTransient, "publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, pub.targetURL, strings.TrimSpace(string(raw)))
	}
	return crerr.Newf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, pub.targetURL, strings.TrimSpace(string(raw)))
}

func (p *QStashPublisher) headers(pub publishRequest) map[string]string {
	out := map[string]string{
		"Authorization":  "Bearer " + p.token,
		"Content-Type":   "application/json",
		"Upstash-Method": http.MethodPost,
	}
	if p.retries > 0 {
		out["Upstash-Retries"] = strconv.Itoa(p.retries)
	}
	if pub.delay != "0s" {
		out["Upstash-Delay"] = pub.delay
	}
	if pub.deduplicationID != "" {
		out["Upstash-Deduplication-Id"] = pub.deduplicationID
	}
	if p.internalJobToken != "" {
		out["Upstash-Forward-X-Internal-Job-Token"] = p.internalJobToken
	}
	return out
}

// curlPreview renders the publish call for span attributes with secrets
// masked.
func (p *QStashPublisher) curlPreview(pub publishRequest) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST " + shellQuote(pub.publishURL))
	for key, value := range p.headers(pub) {
		switch key {
		case "Authorization":
			value = "Bearer ***"
		case "Upstash-Forward-X-Internal-Job-Token":
			value = "***"
		}
		_, _ = buf.WriteString(" -H " + shellQuote(key+": "+value))
	}
	_, _ = buf.WriteString(" -d " + shellQuote(truncateForLog(string(pub.body), 4096)))
	return buf.String()
}

func (p *QStashPublisher) recordCircuitResult(err error) {
	if err != nil && crerr.Is(err, errQStashTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
