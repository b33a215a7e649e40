package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKeyPrefix = "leaderboard:"

type LeaderboardEntry struct {
	Member string `json:"member"`
	Score  int64  `json:"score"`
	Rank   int64  `json:"rank"`
}

func leaderboardKey(board string) string {
	return leaderboardKeyPrefix + board
}

// AddScore adds delta to member's total on board.
func (c *Cache) AddScore(ctx context.Context, board, member string, delta int64) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.ZIncrBy(ctx, leaderboardKey(board), float64(delta), member).Err()
}

// Top returns the highest totals first, ranks 1-indexed. Disabled caches return an empty board.
func (c *Cache) Top(ctx context.Context, board string, limit int64) ([]LeaderboardEntry, error) {
	entries := []LeaderboardEntry{}
	if !c.Enabled() || limit <= 0 {
		return entries, nil
	}

	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey(board), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	for i, z := range results {
		member, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			Member: member,
			Score:  int64(z.Score),
			Rank:   int64(i) + 1,
		})
	}
	return entries, nil
}

// Rank returns member's 1-indexed rank, or 0 when absent.
func (c *Cache) Rank(ctx context.Context, board, member string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	rank, err := c.client.ZRevRank(ctx, leaderboardKey(board), member).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}

// RemoveMember drops member from every named board.
func (c *Cache) RemoveMember(ctx context.Context, member string, boards ...string) error {
	if !c.Enabled() {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, board := range boards {
		pipe.ZRem(ctx, leaderboardKey(board), member)
	}
	_, err := pipe.Exec(ctx)
	return err
}
