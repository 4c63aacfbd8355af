package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// TotalLeaderboardKey is the Redis sorted set mirroring the all-time
	// leaderboard. SQL is the source of truth; this mirror serves fast
	// reads and change detection.
	TotalLeaderboardKey = "gamification:leaderboard:total"

	// MetadataKey is the Redis hash of username -> base score.
	MetadataKey = "gamification:leaderboard:metadata"

	// VersionKey tracks the global leaderboard version. The WebSocket hub
	// polls it and broadcasts when it changes.
	VersionKey = "gamification:leaderboard:version"

	// TimestampDivisor is used in composite score calculation to prevent
	// precision loss. 10^10 keeps the timestamp fraction well below one
	// point.
	TimestampDivisor = 10_000_000_000
)

// RedisRepository handles all Redis operations
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

// ComputeCompositeScore folds a timestamp into the score so that equal
// scores order by who reached them first: score + (1 - timestamp/10^10).
func ComputeCompositeScore(score int, timestamp int64) float64 {
	return float64(score) + (1.0 - float64(timestamp)/TimestampDivisor)
}

// ExtractBaseScore extracts the integer score from a composite score
func ExtractBaseScore(compositeScore float64) int {
	return int(compositeScore)
}

// MirrorScore writes one user's all-time score into the mirror and bumps
// the leaderboard version.
func (r *RedisRepository) MirrorScore(ctx context.Context, username string, points int) error {
	timestamp := time.Now().UnixNano()
	compositeScore := ComputeCompositeScore(points, timestamp)

	pipe := r.client.Pipeline()

	pipe.ZAdd(ctx, TotalLeaderboardKey, redis.Z{
		Score:  compositeScore,
		Member: username,
	})

	// Base score for display lookups
	pipe.HSet(ctx, MetadataKey, username, points)

	pipe.Incr(ctx, VersionKey)

	_, err := pipe.Exec(ctx)
	return err
}

// BulkMirrorScores writes many users' scores in one pipeline (seeding and
// recovery sync).
func (r *RedisRepository) BulkMirrorScores(ctx context.Context, scores map[string]int) error {
	pipe := r.client.Pipeline()

	timestamp := time.Now().UnixNano()

	for username, points := range scores {
		pipe.ZAdd(ctx, TotalLeaderboardKey, redis.Z{
			Score:  ComputeCompositeScore(points, timestamp),
			Member: username,
		})
		pipe.HSet(ctx, MetadataKey, username, points)

		// Small timestamp increment for deterministic ordering within batch
		timestamp++
	}

	pipe.Incr(ctx, VersionKey)

	_, err := pipe.Exec(ctx)
	return err
}

// GetUserScore retrieves a user's mirrored score from the metadata hash.
func (r *RedisRepository) GetUserScore(ctx context.Context, username string) (int, error) {
	scoreStr, err := r.client.HGet(ctx, MetadataKey, username).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found")
		}
		return 0, err
	}

	score, err := strconv.Atoi(scoreStr)
	if err != nil {
		return 0, fmt.Errorf("invalid score format: %w", err)
	}

	return score, nil
}

// GetUserRank calculates a user's all-time rank from the mirror. Returns
// the rank (1-indexed) or an error if the user is not mirrored.
func (r *RedisRepository) GetUserRank(ctx context.Context, username string) (int, error) {
	compositeScore, err := r.client.ZScore(ctx, TotalLeaderboardKey, username).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found")
		}
		return 0, err
	}

	// Count users with composite score strictly greater than this one
	count, err := r.client.ZCount(ctx, TotalLeaderboardKey, fmt.Sprintf("(%f", compositeScore), "+inf").Result()
	if err != nil {
		return 0, err
	}

	return int(count) + 1, nil
}

// GetTopUsers retrieves the top of the mirrored all-time leaderboard with
// composite scores collapsed back to base scores.
func (r *RedisRepository) GetTopUsers(ctx context.Context, offset, limit int) ([]redis.Z, error) {
	start := int64(offset)
	stop := int64(offset + limit - 1)

	results, err := r.client.ZRevRangeWithScores(ctx, TotalLeaderboardKey, start, stop).Result()
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Score = float64(ExtractBaseScore(results[i].Score))
	}

	return results, nil
}

// GetLeaderboardVersion returns the current global version number
func (r *RedisRepository) GetLeaderboardVersion(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, VersionKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // Version not set yet
		}
		return 0, err
	}
	return version, nil
}

// GetTotalUsers returns the number of users in the mirror.
func (r *RedisRepository) GetTotalUsers(ctx context.Context) (int64, error) {
	return r.client.ZCard(ctx, TotalLeaderboardKey).Result()
}

// Ping checks if Redis is reachable
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
