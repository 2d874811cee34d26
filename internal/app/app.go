package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/external/jobqueue"
	"github.com/riskibarqy/fantasy-rules-engine/external/resultsfeed"
	"github.com/riskibarqy/fantasy-rules-engine/internal/config"
	"github.com/riskibarqy/fantasy-rules-engine/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-rules-engine/internal/interfaces/mcptools"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

// Container owns the wired services and the resources they hold.
type Container struct {
	cfg    config.Config
	logger *logging.Logger
	db     *sqlx.DB

	Gameweeks   *usecase.GameweekService
	Players     *usecase.PlayerService
	Squads      *usecase.SquadService
	Transfers   *usecase.TransferService
	Chips       *usecase.ChipService
	Scoring     *usecase.ScoringService
	ResultsSync *usecase.ResultsSyncService
	Jobs        *usecase.JobOrchestratorService
	Watcher     *usecase.DeadlineWatcher
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rules := cfg.EngineRules()
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("engine rules: %w", err)
	}

	repos, db, err := openRepositories(ctx, cfg, logger.Named("storage"))
	if err != nil {
		return nil, err
	}

	c := &Container{cfg: cfg, logger: logger, db: db}
	c.Gameweeks = usecase.NewGameweekService(repos.gameweeks, logger.Named("gameweek"))
	c.Players = usecase.NewPlayerService(c.Gameweeks, repos.players, logger.Named("player"))
	c.Squads = usecase.NewSquadService(
		c.Gameweeks,
		repos.players,
		repos.squads,
		repos.transfers,
		repos.chips,
		rules,
		logger.Named("squad"),
	)
	c.Transfers = usecase.NewTransferService(c.Gameweeks, c.Squads, logger.Named("transfer"))
	c.Chips = usecase.NewChipService(c.Gameweeks, c.Squads, logger.Named("chip"))
	c.Scoring = usecase.NewScoringService(c.Gameweeks, c.Squads, repos.scores, cfg.ScoringWorkers, logger.Named("scoring"))

	if cfg.ResultsFeedEnabled {
		feed := resultsfeed.NewClient(resultsfeed.ClientConfig{
			BaseURL:    cfg.ResultsFeedBaseURL,
			Token:      cfg.ResultsFeedToken,
			Timeout:    cfg.ResultsFeedTimeout,
			MaxRetries: cfg.ResultsFeedMaxRetries,
			Logger:     logger.Named("resultsfeed"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ResultsFeedCircuitEnabled,
				FailureThreshold: cfg.ResultsFeedCircuitFailureCount,
				OpenTimeout:      cfg.ResultsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ResultsFeedCircuitHalfOpenMax,
			},
		})
		c.ResultsSync = usecase.NewResultsSyncService(feed, c.Gameweeks, c.Scoring, c.Players, usecase.ResultsSyncConfig{
			MaxConcurrency: cfg.ResultsFeedMaxConcurrency,
			AutoProcess:    cfg.ResultsFeedAutoProcess,
		}, logger.Named("resultssync"))

		c.Jobs = usecase.NewJobOrchestratorService(c.ResultsSync, c.Gameweeks, newJobQueue(cfg, logger), usecase.JobOrchestratorConfig{
			FirstSyncDelay: cfg.JobFirstSyncDelay,
			PollInterval:   cfg.JobPollInterval,
		}, logger.Named("jobs"))
		c.Gameweeks.OnLock(c.Jobs)
	} else {
		logger.Info("results feed disabled", "reason", "RESULTS_FEED_BASE_URL empty")
	}

	c.Watcher = usecase.NewDeadlineWatcher(c.Gameweeks, cfg.DeadlineCheckInterval, logger.Named("deadline"))
	return c, nil
}

func newJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		logger.Info("qstash disabled", "reason", "QSTASH_ENABLED=false")
		return usecase.NewNoopJobQueue()
	}
	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          cfg.QStashTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger.Named("qstash"))
}

// Start runs the background deadline watcher.
func (c *Container) Start(ctx context.Context) {
	c.Watcher.Start(ctx)
}

// Close stops background work and releases the database pool.
func (c *Container) Close() error {
	c.Watcher.Stop()
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (c *Container) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(httpapi.Services{
		Gameweeks:   c.Gameweeks,
		Players:     c.Players,
		Squads:      c.Squads,
		Transfers:   c.Transfers,
		Chips:       c.Chips,
		Scoring:     c.Scoring,
		ResultsSync: c.ResultsSync,
		Jobs:        c.Jobs,
	}, c.logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, c.logger.Named("http"), c.cfg.CORSAllowedOrigins, c.cfg.InternalJobToken)

	server := &http.Server{
		Addr:         c.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  c.cfg.ReadTimeout,
		WriteTimeout: c.cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}

	return server, nil
}

func (c *Container) NewMCPServer() *mcptools.Server {
	return mcptools.NewServer(mcptools.Services{
		Gameweeks: c.Gameweeks,
		Squads:    c.Squads,
		Transfers: c.Transfers,
		Chips:     c.Chips,
		Scoring:   c.Scoring,
	}, c.cfg.ServiceVersion, c.logger)
}
