package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/puzzleduel-go/internal/model"
	"github.com/mcoot/puzzleduel-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entries are stored as JSON values with sorted-set indexes per ordering.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := entryKey(entry.ID)

	// Pipeline the value write and all three index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.EntryTTL)
	pipe.ZAdd(ctx, byScoreKey(), redis.Z{Score: float64(entry.Score), Member: entry.ID})
	pipe.ZAdd(ctx, byTimeKey(), redis.Z{Score: entry.ElapsedSeconds, Member: entry.ID})
	pipe.ZAdd(ctx, byDateKey(), redis.Z{Score: float64(entry.RecordedAt.UnixNano()), Member: entry.ID})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListLeaderboard(ctx context.Context, by model.LeaderboardSort, limit int) ([]*model.LeaderboardEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	var ids []string
	var err error
	switch by {
	case model.SortByScore:
		ids, err = s.client.ZRevRange(ctx, byScoreKey(), 0, stop).Result()
	case model.SortByTime:
		ids, err = s.client.ZRange(ctx, byTimeKey(), 0, stop).Result()
	case model.SortByDate:
		ids, err = s.client.ZRevRange(ctx, byDateKey(), 0, stop).Result()
	default:
		return nil, model.ErrInvalidSort
	}
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, entryKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Entry value expired ahead of its index membership
				continue
			}
			return nil, err
		}
		var entry model.LeaderboardEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
