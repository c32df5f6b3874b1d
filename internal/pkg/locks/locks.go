// Package locks provides Redis-backed unit locks for check-in.
package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PropertyFox/internal/pkg/lifecycle"
)

// DefaultTTL bounds how long a crashed holder can keep a unit locked
const DefaultTTL = 10 * time.Second

// ErrLocked is returned when another holder owns the lock
var ErrLocked = lifecycle.ErrUnitBusy

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ lifecycle.UnitLocker = (*UnitLocker)(nil)

// UnitLocker takes per-unit locks with SET NX PX
type UnitLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewUnitLocker creates a locker; ttl <= 0 uses DefaultTTL
func NewUnitLocker(client *redis.Client, ttl time.Duration) *UnitLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &UnitLocker{client: client, ttl: ttl, prefix: "propertyfox:lock:unit:"}
}

// Key returns the Redis key of a unit lock
func (l *UnitLocker) Key(unitID uint) string {
	return fmt.Sprintf("%s%d", l.prefix, unitID)
}

// Acquire locks the unit. The returned func releases it if the lock is still ours.
func (l *UnitLocker) Acquire(ctx context.Context, unitID uint) (func(), error) {
	key := l.Key(unitID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			log.Warnf("[Locks] failed to release %s: %v", key, err)
		}
	}, nil
}

// IsLocked reports whether the unit is currently locked
func (l *UnitLocker) IsLocked(ctx context.Context, unitID uint) (bool, error) {
	n, err := l.client.Exists(ctx, l.Key(unitID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
