package services

import (
	"codeclash/internal/common"
	"codeclash/internal/logger"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TeamLocker serialises mutations of one team's record. Lock fails fast with
// common.ErrTeamBusy when another holder owns the team.
type TeamLocker interface {
	Lock(ctx context.Context, teamID int) (unlock func(), err error)
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

type redisTeamLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTeamLocker(client *redis.Client, ttl time.Duration) TeamLocker {
	return &redisTeamLocker{client: client, ttl: ttl}
}

func (l *redisTeamLocker) Lock(ctx context.Context, teamID int) (func(), error) {
	key := fmt.Sprintf("lock:team:%d", teamID)
	value := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, value, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire team lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("team %d: %w", teamID, common.ErrTeamBusy)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		deleted, err := releaseScript.Run(releaseCtx, l.client, []string{key}, value).Int64()
		if err != nil {
			logger.Log.Error("Failed to release team lock", zap.Int("team_id", teamID), zap.Error(err))
			return
		}
		if deleted == 0 {
			logger.Log.Warn("Team lock expired before release", zap.Int("team_id", teamID))
		}
	}, nil
}

type localTeamLocker struct {
	mu    sync.Mutex
	teams map[int]*sync.Mutex
}

// NewLocalTeamLocker is the single-process TeamLocker.
func NewLocalTeamLocker() TeamLocker {
	return &localTeamLocker{teams: make(map[int]*sync.Mutex)}
}

func (l *localTeamLocker) Lock(_ context.Context, teamID int) (func(), error) {
	l.mu.Lock()
	m, ok := l.teams[teamID]
	if !ok {
		m = &sync.Mutex{}
		l.teams[teamID] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, fmt.Errorf("team %d: %w", teamID, common.ErrTeamBusy)
	}

	var once sync.Once
	return func() { once.Do(m.Unlock) }, nil
}
