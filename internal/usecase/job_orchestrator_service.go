package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	JobPathResultsSync = "/v1/internal/jobs/results-sync"
	JobPathMarketSync  = "/v1/internal/jobs/market-sync"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	// FirstSyncDelay is how long after the lock the first results sync runs.
	FirstSyncDelay time.Duration
	// PollInterval spaces further syncs while fixtures are still open.
	PollInterval time.Duration
}

type JobSyncInput struct {
	Gameweek int
}

type JobSyncResult struct {
	Mode             string             `json:"mode"`
	Gameweek         int                `json:"gameweek"`
	Results          *ResultsSyncResult `json:"results,omitempty"`
	PlayersUpdated   int                `json:"players_updated"`
	QueuedCount      int                `json:"queued_count"`
	QueuedOperations []string           `json:"queued_operations"`
}

// JobOrchestratorService drives the results sync through the job queue: a
// lock schedules the first sync and each sync reschedules itself until every
// fixture of the gameweek is final.
type JobOrchestratorService struct {
	results   *ResultsSyncService
	gameweeks *GameweekService
	queue     JobQueue
	cfg       JobOrchestratorConfig
	logger    *logging.Logger
	now       func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	results *ResultsSyncService,
	gameweeks *GameweekService,
	queue JobQueue,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FirstSyncDelay <= 0 {
		cfg.FirstSyncDelay = 2 * time.Hour
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Minute
	}

	return &JobOrchestratorService{
		results:   results,
		gameweeks: gameweeks,
		queue:     queue,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// OnGameweekLocked schedules the first results sync of the locked gameweek.
func (s *JobOrchestratorService) OnGameweekLocked(ctx context.Context, gw gameweek.Gameweek) error {
	return s.enqueueResultsSync(ctx, gw.Number, s.cfg.FirstSyncDelay, s.now())
}

// RunResultsSync ingests what the feed has and reschedules itself while the
// gameweek is still incomplete.
func (s *JobOrchestratorService) RunResultsSync(ctx context.Context, input JobSyncInput) (JobSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunResultsSync")
	defer span.End()

	if input.Gameweek <= 0 {
		gw, err := s.gameweeks.Current(ctx)
		if err != nil {
			return JobSyncResult{}, err
		}
		input.Gameweek = gw.Number
	}

	result := JobSyncResult{
		Mode:             "results-sync",
		Gameweek:         input.Gameweek,
		QueuedOperations: make([]string, 0, 1),
	}

	synced, err := s.results.SyncResults(ctx, input.Gameweek)
	if err != nil {
		if errors.Is(err, gameweek.ErrInvalidTransition) {
			s.logger.InfoContext(ctx, "results sync skipped", "gameweek", input.Gameweek, "reason", err)
			result.Results = &synced
			return result, nil
		}
		return JobSyncResult{}, fmt.Errorf("sync results gameweek=%d: %w", input.Gameweek, err)
	}
	result.Results = &synced

	if !synced.Complete {
		if err := s.enqueueResultsSync(ctx, input.Gameweek, s.cfg.PollInterval, s.now()); err != nil {
			return JobSyncResult{}, err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, "results-sync:gw-"+strconv.Itoa(input.Gameweek))
	}
	return result, nil
}

// RunMarketSync pulls price and status updates from the feed.
func (s *JobOrchestratorService) RunMarketSync(ctx context.Context) (JobSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunMarketSync")
	defer span.End()

	updated, err := s.results.SyncPlayerMarket(ctx)
	if err != nil {
		return JobSyncResult{}, fmt.Errorf("sync player market: %w", err)
	}
	return JobSyncResult{
		Mode:             "market-sync",
		PlayersUpdated:   updated,
		QueuedOperations: []string{},
	}, nil
}

func (s *JobOrchestratorService) enqueueResultsSync(ctx context.Context, gameweekNumber int, delay time.Duration, now time.Time) error {
	subject := "gw-" + strconv.Itoa(gameweekNumber)
	dedupID := dedupKey("results-sync", subject, now.Add(delay), s.cfg.PollInterval)
	payload := map[string]any{
		"gameweek":    gameweekNumber,
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, JobPathResultsSync, payload, delay, dedupID); err != nil {
		s.logger.WarnContext(ctx, "enqueue results sync failed", "gameweek", gameweekNumber, "dispatch_id", dedupID, "error", err)
		return fmt.Errorf("enqueue results-sync gameweek=%d: %w", gameweekNumber, err)
	}

	traceID, _ := traceMetaFromContext(ctx)
	s.logger.InfoContext(ctx, "results sync queued",
		"gameweek", gameweekNumber,
		"dispatch_id", dedupID,
		"delay", delay.String(),
		"origin_trace_id", traceID,
	)
	return nil
}

func dedupKey(prefix, subject string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	subject = sanitizeDedupSegment(subject)
	return prefix + "-" + subject + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
