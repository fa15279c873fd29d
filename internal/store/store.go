package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const progressTTL = 5 * time.Minute

type Store interface {
	// CompleteModule records a completion once; later calls for the same module report false.
	CompleteModule(ctx context.Context, userID, moduleID string, xpReward int) (bool, error)
	GetProgress(ctx context.Context, userID string) (*types.Progress, error)
}

type store struct {
	db    *sql.DB
	cache *redis.Client
	now   func() time.Time
}

// NewStore returns a PostgreSQL backed store. cache may be nil.
func NewStore(db *sql.DB, cache *redis.Client) Store {
	return &store{db: db, cache: cache, now: time.Now}
}

func progressKey(userID string) string {
	return fmt.Sprintf("progress:%s", userID)
}

func (s *store) CompleteModule(ctx context.Context, userID, moduleID string, xpReward int) (bool, error) {
	query := `INSERT INTO module_completions (user_id, module_id, xp_reward, completed_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, module_id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, userID, moduleID, xpReward, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to record module completion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, progressKey(userID)).Err(); err != nil {
			log.Printf("Failed to invalidate progress cache for user %s: %v", userID, err)
		}
	}
	log.Printf("User %s completed module %s (+%d xp)", userID, moduleID, xpReward)
	return true, nil
}

func (s *store) GetProgress(ctx context.Context, userID string) (*types.Progress, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, progressKey(userID)).Result()
		if err == nil {
			var progress types.Progress
			if err := json.Unmarshal([]byte(cached), &progress); err == nil {
				return &progress, nil
			}
		}
	}

	query := `SELECT module_id, xp_reward, completed_at
	          FROM module_completions WHERE user_id = $1 ORDER BY completed_at, module_id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completions from db: %w", err)
	}
	defer rows.Close()

	completions := make([]types.ModuleCompletion, 0)
	for rows.Next() {
		var c types.ModuleCompletion
		if err := rows.Scan(&c.ModuleID, &c.XPReward, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read completions: %w", err)
	}

	progress := BuildProgress(userID, completions)

	if s.cache != nil {
		if data, err := json.Marshal(progress); err == nil {
			if err := s.cache.Set(ctx, progressKey(userID), data, progressTTL).Err(); err != nil {
				log.Printf("Failed to cache progress for user %s: %v", userID, err)
			}
		}
	}
	return progress, nil
}
