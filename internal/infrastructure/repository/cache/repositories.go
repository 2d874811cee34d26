package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	basecache "github.com/riskibarqy/fantasy-rules-engine/internal/platform/cache"
)

const (
	playerKeyPrefix   = "player:"
	gameweekKeyPrefix = "gameweek:"
)

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	items, err := basecache.Load(ctx, r.cache, playerKeyPrefix+"list", func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, playerKeyPrefix+"id:"+playerID, func(ctx context.Context) (cachedPlayerByID, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return cachedPlayerByID{}, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	key := playerKeyPrefix + "ids:" + normalizeIDsKey(playerIDs)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

// UpsertMany writes through and drops every cached player read.
func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if err := r.next.UpsertMany(ctx, players); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return nil
}

type GameweekRepository struct {
	next  gameweek.Repository
	cache *basecache.Store
}

func NewGameweekRepository(next gameweek.Repository, cache *basecache.Store) *GameweekRepository {
	return &GameweekRepository{next: next, cache: cache}
}

func (r *GameweekRepository) GetCurrent(ctx context.Context) (gameweek.Gameweek, bool, error) {
	return r.load(ctx, gameweekKeyPrefix+"current", r.next.GetCurrent)
}

func (r *GameweekRepository) GetByNumber(ctx context.Context, number int) (gameweek.Gameweek, bool, error) {
	return r.load(ctx, gameweekKeyPrefix+"number:"+strconv.Itoa(number), func(ctx context.Context) (gameweek.Gameweek, bool, error) {
		return r.next.GetByNumber(ctx, number)
	})
}

func (r *GameweekRepository) Upsert(ctx context.Context, gw gameweek.Gameweek) error {
	if err := r.next.Upsert(ctx, gw); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, gameweekKeyPrefix)
	return nil
}

type cachedGameweek struct {
	value  gameweek.Gameweek
	exists bool
}

func (r *GameweekRepository) load(ctx context.Context, key string, loader func(context.Context) (gameweek.Gameweek, bool, error)) (gameweek.Gameweek, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedGameweek, error) {
		item, exists, err := loader(ctx)
		if err != nil {
			return cachedGameweek{}, err
		}
		return cachedGameweek{value: item, exists: exists}, nil
	})
	if err != nil {
		return gameweek.Gameweek{}, false, err
	}
	return cached.value, cached.exists, nil
}

func normalizeIDsKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
