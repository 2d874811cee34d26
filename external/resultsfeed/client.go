package resultsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout      = 15 * time.Second
	maxResponseBodySize = 6 << 20
)

var (
	errFeedTransient = crerr.New("results feed transient failure")
	bearerTokenRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
)

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fixtures, final player stats and market updates from the
// results provider. It implements usecase.ResultsFeed.
type Client struct {
	http       *fasthttp.Client
	baseURL    string
	token      string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
}

var _ usecase.ResultsFeed = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "fantasy-rules-engine",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodySize,
		},
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    time.Second,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

func (c *Client) ListFixtures(ctx context.Context, gameweek int) ([]usecase.ExternalFixture, error) {
	if gameweek <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/gameweeks/"+strconv.Itoa(gameweek)+"/fixtures", &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures gameweek=%d: %w", gameweek, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		fixture := usecase.ExternalFixture{
			ID:       id,
			Gameweek: item.Gameweek,
			Finished: item.Finished || strings.EqualFold(item.Status, "FT"),
		}
		if fixture.Gameweek <= 0 {
			fixture.Gameweek = gameweek
		}
		if kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(item.KickoffAt)); err == nil {
			fixture.KickoffAt = kickoff.UTC()
		}
		out = append(out, fixture)
	}
	return out, nil
}

func (c *Client) GetFixtureStats(ctx context.Context, fixtureID string) ([]scoring.MatchStats, error) {
	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return nil, fmt.Errorf("%w: fixture id is required", usecase.ErrInvalidInput)
	}

	var envelope statsEnvelope
	if err := c.doJSON(ctx, "/fixtures/"+url.PathEscape(fixtureID)+"/stats", &envelope); err != nil {
		return nil, fmt.Errorf("fetch stats fixture=%s: %w", fixtureID, err)
	}

	out := make([]scoring.MatchStats, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if strings.TrimSpace(item.PlayerID) == "" {
			continue
		}
		out = append(out, item.toDomain(fixtureID))
	}
	return out, nil
}

func (c *Client) ListPlayerUpdates(ctx context.Context) ([]usecase.PlayerMarketUpdate, error) {
	var envelope playerUpdatesEnvelope
	if err := c.doJSON(ctx, "/players/updates", &envelope); err != nil {
		return nil, fmt.Errorf("fetch player updates: %w", err)
	}

	out := make([]usecase.PlayerMarketUpdate, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		update := usecase.PlayerMarketUpdate{
			PlayerID: strings.TrimSpace(item.PlayerID),
			Price:    item.Price,
		}
		if update.PlayerID == "" {
			continue
		}
		if raw := strings.TrimSpace(item.Status); raw != "" {
			status, err := player.ParseStatus(raw)
			if err != nil {
				c.logger.WarnContext(ctx, "skip player update with unknown status", "player_id", update.PlayerID, "status", raw)
				continue
			}
			update.Status = &status
		}
		if update.Price == nil && update.Status == nil {
			continue
		}
		out = append(out, update)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.baseURL == "" {
		return crerr.New("results feed base url is not configured")
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "results feed circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.buildURL(path)
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		if isCircuitFailure(err) {
			return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode results feed payload")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	return buf.String()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.send(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = crerr.Wrapf(errFeedTransient, "send request: %s", sanitizeSensitiveText(err.Error(), c.token))
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Wrapf(errFeedTransient, "provider status=%d body=%s", status, abbreviateBody(raw))
		default:
			return nil, crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "results feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}
	return append([]byte(nil), resp.Body()...), resp.StatusCode(), nil
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errFeedTransient) || stderrors.Is(err, context.DeadlineExceeded)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerTokenRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
