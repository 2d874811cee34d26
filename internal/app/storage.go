package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fantasy-rules-engine/internal/config"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	cacherepo "github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/fantasy-rules-engine/internal/platform/cache"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	players   player.Repository
	gameweeks gameweek.Repository
	squads    fantasy.Repository
	transfers transfer.Repository
	chips     chip.Repository
	scores    scoring.Repository
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	var (
		repos repositories
		db    *sqlx.DB
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		var err error
		db, err = openDatabase(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if cfg.DBSeedOnStart {
			if err := postgres.BootstrapSeed(ctx, db, time.Now()); err != nil {
				_ = db.Close()
				return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		repos = repositories{
			players:   postgres.NewPlayerRepository(db),
			gameweeks: postgres.NewGameweekRepository(db),
			squads:    postgres.NewSquadRepository(db),
			transfers: postgres.NewTransferRepository(db),
			chips:     postgres.NewChipRepository(db),
			scores:    postgres.NewScoringRepository(db),
		}
	default:
		repos = repositories{
			players:   memory.NewPlayerRepository(memory.SeedPlayers()),
			gameweeks: memory.NewGameweekRepository(memory.SeedGameweek(time.Now())),
			squads:    memory.NewSquadRepository(),
			transfers: memory.NewTransferRepository(),
			chips:     memory.NewChipRepository(),
			scores:    memory.NewScoringRepository(),
		}
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.gameweeks = cacherepo.NewGameweekRepository(repos.gameweeks, store)
	}

	logger.Info("storage ready",
		"driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"cache_ttl", cfg.CacheTTL.String(),
	)
	return repos, db, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
